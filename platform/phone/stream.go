// Package phone provides phone number utilities: sanitizing typed input,
// detecting numbering plans and formatting numbers for display.
// This is part of the platform layer and contains no business logic.
package phone

import "strings"

// Marker is the international prefix that may lead a DigitStream.
const Marker = '+'

// DigitStream is the canonical representation of a typed phone number:
// ASCII digits only, optionally preceded by a single Marker at position 0.
// Values are produced by Sanitize; converting arbitrary strings bypasses
// that invariant.
type DigitStream string

// HasMarker reports whether the stream starts with the international marker.
func (s DigitStream) HasMarker() bool {
	return strings.HasPrefix(string(s), string(Marker))
}

// Digits returns the stream without its marker.
func (s DigitStream) Digits() string {
	return strings.TrimPrefix(string(s), string(Marker))
}

// DigitCount returns the number of digits, excluding the marker.
func (s DigitStream) DigitCount() int {
	return len(s.Digits())
}

// IsEmpty reports whether nothing at all was kept, not even the marker.
func (s DigitStream) IsEmpty() bool {
	return s == ""
}

func (s DigitStream) String() string {
	return string(s)
}
