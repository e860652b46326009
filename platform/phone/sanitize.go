package phone

import (
	"strings"

	"golang.org/x/text/width"
)

// Sanitize reduces arbitrary input to a DigitStream. A leading '+' survives
// only when it is the first character of the input; every other non-digit is
// dropped and digit order is preserved. Full-width digits and plus signs from
// CJK input methods are folded to ASCII first. Sanitize never fails.
func Sanitize(input string) DigitStream {
	folded := strings.TrimSpace(width.Narrow.String(input))
	if folded == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(folded))

	for i, r := range folded {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == Marker && i == 0:
			b.WriteRune(r)
		}
	}

	return DigitStream(b.String())
}
