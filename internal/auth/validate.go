package auth

import (
	"regexp"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
)

// IsValidEmail reports whether s looks like local@domain.tld. It is a
// format check only; no deliverability or DNS lookup is performed.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsStrongPassword reports whether s is at least 8 characters and contains
// an uppercase letter, a lowercase letter, a digit and a punctuation
// character. All conditions must hold; there is no partial credit.
func IsStrongPassword(s string) bool {
	return utf8.RuneCountInString(s) >= 8 &&
		upperPattern.MatchString(s) &&
		lowerPattern.MatchString(s) &&
		digitPattern.MatchString(s) &&
		specialPattern.MatchString(s)
}
