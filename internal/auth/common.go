package auth

import "unicode"

// capitalizeFirst upper-cases the first rune. Token verification errors
// are surfaced to clients in sentence case.
func capitalizeFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
