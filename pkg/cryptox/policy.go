package cryptox

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PasswordSymbols is the fixed set of symbols accepted by the strength policy.
const PasswordSymbols = "@$!%*?&"

// MinPasswordLength is the shortest password the strength policy accepts,
// counted in characters rather than bytes.
const MinPasswordLength = 8

// IsPasswordStrong reports whether p has at least MinPasswordLength
// characters and contains an uppercase letter, a lowercase letter, a digit
// and one of PasswordSymbols. Letter case and digits follow Unicode classes.
func IsPasswordStrong(p string) bool {
	if utf8.RuneCountInString(p) < MinPasswordLength {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, c := range p {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		case strings.ContainsRune(PasswordSymbols, c):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
