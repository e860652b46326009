package phone

import "strings"

// Result bundles the derived views of one input value.
type Result struct {
	Raw       DigitStream
	Display   string
	Invalid   bool
	Detection Detection
}

// FormatDetection renders a detection result. Anything that is not a match,
// or a match whose adjusted national length has no grouping template, is
// returned as the raw stream.
func FormatDetection(d Detection) string {
	if d.Kind != Matched {
		return d.Stream.String()
	}

	national := d.Plan.TrunkPrefix + d.National
	groups, ok := d.Plan.Template(len(national))
	if !ok {
		return d.Stream.String()
	}

	grouped := group(national, groups, d.Plan.Separator)
	if d.Plan.IncludeCode {
		return string(Marker) + d.Plan.Code + " " + grouped
	}
	return grouped
}

func group(digits string, sizes []int, separator string) string {
	parts := make([]string, 0, len(sizes))
	offset := 0
	for _, size := range sizes {
		parts = append(parts, digits[offset:offset+size])
		offset += size
	}
	return strings.Join(parts, separator)
}

// Format detects the plan for a stream and renders it.
func (r *Registry) Format(s DigitStream) string {
	return FormatDetection(r.Detect(s))
}

// Evaluate sanitizes input and derives every view of it in one pass.
func (r *Registry) Evaluate(input string) Result {
	raw := Sanitize(input)
	detection := r.Detect(raw)
	return Result{
		Raw:       raw,
		Display:   FormatDetection(detection),
		Invalid:   IsInvalid(raw),
		Detection: detection,
	}
}

// Format renders a stream with the default registry.
func Format(s DigitStream) string {
	return defaultRegistry.Format(s)
}

// Evaluate runs Registry.Evaluate on the default registry.
func Evaluate(input string) Result {
	return defaultRegistry.Evaluate(input)
}
