package domain

// Edit replaces the rune range [Start, End) of the displayed content with
// Text. Offsets outside the content are clamped.
type Edit struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Backspace deletes the rune before position pos.
func Backspace(pos int) Edit {
	return Edit{Start: pos - 1, End: pos}
}

// Apply returns content with the edit applied.
func (e Edit) Apply(content string) string {
	runes := []rune(content)
	start := clamp(e.Start, 0, len(runes))
	end := clamp(e.End, start, len(runes))

	out := make([]rune, 0, len(runes)-(end-start)+len(e.Text))
	out = append(out, runes[:start]...)
	out = append(out, []rune(e.Text)...)
	out = append(out, runes[end:]...)
	return string(out)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
