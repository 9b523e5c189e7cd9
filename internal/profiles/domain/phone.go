package domain

import "strings"

// NormalizePhone strips all non-digit characters and keeps the last 10 digits,
// which drops country-code prefixes. The operation is idempotent:
// NormalizePhone(NormalizePhone(x)) == NormalizePhone(x).
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))

	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) > 10 {
		return digits[len(digits)-10:]
	}
	return digits
}

// SamePhone reports whether two phone numbers are equal after normalization.
// Empty numbers never match.
func SamePhone(a, b string) bool {
	na, nb := NormalizePhone(a), NormalizePhone(b)
	return na != "" && na == nb
}
