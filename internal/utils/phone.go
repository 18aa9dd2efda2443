package utils

import "strings"

// NormalizePhone keeps digits only and prefixes the Singapore country code
// to bare 8-digit numbers and to numbers starting with 8 or 9.
// The heuristic is region-specific and also catches some foreign numbers.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) == 8 || digits[0] == '8' || digits[0] == '9' {
		return "65" + digits
	}
	return digits
}
