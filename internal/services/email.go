package services

import "strings"

// NormalizeEmail canonicalizes an address for equality comparison. The whole
// address is trimmed and lowercased; dots in the local part are preserved, so
// "A.B+x@Gmail.com" and "ab+x@gmail.com" stay distinct accounts.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
