package thing

import (
	"strings"
	"unicode"
)

// Slug converts a string to a lowercase URL-safe identifier: letters and
// digits are kept (lowercased), every other run of characters becomes a
// single dash, and leading/trailing dashes are trimmed.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	dash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		dash = true
	}
	return b.String()
}
