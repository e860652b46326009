package phone

// Mask hides all but the last four digits of a display string, keeping
// separators and the marker in place. Streams of four digits or fewer keep
// only their last digit.
func Mask(display string) string {
	runes := []rune(display)

	total := 0
	for _, r := range runes {
		if r >= '0' && r <= '9' {
			total++
		}
	}

	keep := 4
	if total <= 4 {
		keep = 1
	}

	seen := 0
	for i, r := range runes {
		if r < '0' || r > '9' {
			continue
		}
		seen++
		if seen <= total-keep {
			runes[i] = '*'
		}
	}
	return string(runes)
}
