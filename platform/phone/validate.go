package phone

// MinDigits is the shortest digit count accepted as a plausible phone number.
const MinDigits = 7

// IsInvalid reports whether the stream is too short to be a phone number.
// The marker is not counted and the plan is not considered.
func IsInvalid(s DigitStream) bool {
	return s.DigitCount() < MinDigits
}
