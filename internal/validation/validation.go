// Package validation holds the pure field predicates used by the order
// conversation. No I/O, no state.
package validation

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Loose international format: optional +country code, optional (area),
// 3-digit exchange, 4-digit number, separated by space, dot or dash.
var phoneRx = regexp.MustCompile(`^(\+?\d{1,3}?[- .]?)?(\(?\d{3}\)?[- .]?)?\d{3}[- .]?\d{4}$`)

// ValidName accepts 2..50 runes, letters and spaces only. Counting runes
// keeps non-ASCII alphabets within the same bounds as ASCII ones.
func ValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 50 {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func ValidPhone(phone string) bool {
	return phoneRx.MatchString(phone)
}

// ValidLocation accepts any address of at least 5 characters. Shared
// coordinates arrive already rendered as "GPS: <lat>, <lon>" and always pass.
func ValidLocation(location string) bool {
	return utf8.RuneCountInString(location) >= 5
}

func ValidDescription(desc string) bool {
	return utf8.RuneCountInString(desc) >= 3
}
