package exchange

import "strings"

// MaskIdentifier keeps the first and last character of s and replaces the
// rest with three asterisks, so "admin" becomes "a***n". Identifiers of two
// characters or fewer are fully masked.
func MaskIdentifier(s string) string {
	r := []rune(s)
	switch {
	case len(r) == 0:
		return ""
	case len(r) <= 2:
		return strings.Repeat("*", len(r))
	}
	return string(r[0]) + "***" + string(r[len(r)-1])
}
