package fbref

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// verifyGolden compares actual against testdata/<name>. With
// UPDATE_GOLDENS=true it rewrites the file instead.
func verifyGolden(t *testing.T, name, actual string) {
	t.Helper()
	path := filepath.Join("testdata", name)
	actual = strings.TrimSpace(actual)

	if os.Getenv("UPDATE_GOLDENS") == "true" {
		if err := os.WriteFile(path, []byte(actual+"\n"), 0o644); err != nil {
			t.Fatalf("write golden %s: %v", path, err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v", path, err)
	}
	expected := strings.TrimSpace(string(b))
	if expected == actual {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected + "\n"),
		B:        difflib.SplitLines(actual + "\n"),
		FromFile: "golden",
		ToFile:   "actual",
		Context:  3,
	})
	t.Errorf("%s mismatch:\n%s", path, diff)
}
