package pipeline

import (
	"strings"

	"github.com/tyler180/fbref-pizza/internal/lookup"
)

// Slug turns a player name into a file-name-safe token: accents are dropped,
// runs of other characters become a single hyphen.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range lookup.Normalize(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r > 0x7f:
			// combining marks and other non-ascii letters are dropped
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "player"
	}
	return s
}
