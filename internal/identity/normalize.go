package identity

import "strings"

// Normalize canonicalizes a submission before attribute resolution so that
// trivially-equivalent values land on the same lookup row: names are trimmed
// (display capitalization preserved), emails are trimmed and lowercased, and
// ten-digit phone numbers are reformatted to XXX-XXX-XXXX.
func Normalize(sub Submission) Submission {
	return Submission{
		FirstName: strings.TrimSpace(sub.FirstName),
		LastName:  strings.TrimSpace(sub.LastName),
		Email:     strings.ToLower(strings.TrimSpace(sub.Email)),
		Phone:     FormatPhone(sub.Phone),
		Source:    strings.TrimSpace(sub.Source),
	}
}

// FormatPhone returns the number as XXX-XXX-XXXX when it contains exactly ten
// digits; anything else is passed through trimmed.
func FormatPhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	digits := digitsOf(trimmed)
	if len(digits) != 10 {
		return trimmed
	}
	return digits[0:3] + "-" + digits[3:6] + "-" + digits[6:10]
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
