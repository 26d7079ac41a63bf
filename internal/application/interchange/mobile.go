package interchange

import "strings"

// NormalizeMobile reduces a phone number to local digits: everything
// non-numeric is dropped, then the country prefix 971 and a leading zero
// are stripped. "+971 50 123 4567" and "050-123-4567" both normalize to
// "501234567".
func NormalizeMobile(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	digits = strings.TrimPrefix(digits, "971")
	digits = strings.TrimPrefix(digits, "0")
	return digits
}
