package lookup

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize trims s and applies Unicode compatibility decomposition (NFKD),
// so precomposed and decomposed spellings of a name compare equal.
func Normalize(s string) string {
	return norm.NFKD.String(strings.TrimSpace(s))
}
