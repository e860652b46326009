package phone

import "github.com/nyaruka/phonenumbers"

const defaultRegion = "KR"

// E164 returns the E.164 form of a stream, parsed in the region of its
// detected plan. ok is false when the number is not valid for that region.
func (r *Registry) E164(s DigitStream) (string, bool) {
	region := r.domestic.Region
	if d := r.Detect(s); d.Kind == Matched && d.Plan.Region != "" {
		region = d.Plan.Region
	}
	if region == "" {
		region = defaultRegion
	}
	return toE164(s.String(), region)
}

func toE164(value, region string) (string, bool) {
	if value == "" {
		return "", false
	}

	number, err := phonenumbers.Parse(value, region)
	if err != nil {
		return "", false
	}

	if !phonenumbers.IsValidNumber(number) {
		return "", false
	}

	return phonenumbers.Format(number, phonenumbers.E164), true
}
