// Package sanitize provides text sanitization for user-provided free text.
package sanitize

import (
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Label cleans a short label: HTML is stripped, runs of whitespace collapse
// to one space and the result is cut to maxRunes.
func Label(s string, maxRunes int) string {
	cleaned := strings.Join(strings.Fields(StripHTML(s)), " ")
	runes := []rune(cleaned)
	if maxRunes > 0 && len(runes) > maxRunes {
		cleaned = strings.TrimSpace(string(runes[:maxRunes]))
	}
	return cleaned
}

// LabelPtr is Label for optional values; blank results become nil.
func LabelPtr(s *string, maxRunes int) *string {
	if s == nil {
		return nil
	}
	result := Label(*s, maxRunes)
	if result == "" {
		return nil
	}
	return &result
}
