package phone

import "strings"

// DetectionKind tags the outcome of plan detection.
type DetectionKind int

const (
	// NoMarker means the stream is empty: no marker and no digits.
	NoMarker DetectionKind = iota
	// AmbiguousOrIncomplete means a marker was typed but the digits so far
	// still fit more than one calling code, or no complete code yet.
	AmbiguousOrIncomplete
	// Unregistered means the digits after the marker can never reach a
	// registered calling code.
	Unregistered
	// Matched means a plan was selected.
	Matched
)

func (k DetectionKind) String() string {
	switch k {
	case NoMarker:
		return "no_marker"
	case AmbiguousOrIncomplete:
		return "ambiguous_or_incomplete"
	case Unregistered:
		return "unregistered"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// Detection is the result of matching a DigitStream against a registry.
// Plan and National are only set when Kind is Matched.
type Detection struct {
	Kind   DetectionKind
	Stream DigitStream
	Plan   NumberingPlan
	// National holds the digits after the calling code, before any trunk
	// prefix is applied. For the domestic plan it is every digit.
	National string
}

// PlanLabel returns the matched plan label, or the kind for other outcomes.
func (d Detection) PlanLabel() string {
	if d.Kind != Matched {
		return d.Kind.String()
	}
	return d.Plan.Label()
}

// Detect selects the numbering plan for a stream.
//
// Streams without a marker use the domestic plan as soon as they hold a
// digit. With a marker, a calling code is only accepted once no longer
// registered code is still reachable from the digits typed so far: "+8"
// waits for the next digit because both 82 and 86 remain possible.
func (r *Registry) Detect(s DigitStream) Detection {
	if !s.HasMarker() {
		if s.IsEmpty() {
			return Detection{Kind: NoMarker, Stream: s}
		}
		return Detection{Kind: Matched, Stream: s, Plan: r.domestic.clone(), National: s.Digits()}
	}

	typed := s.Digits()
	best := -1
	for i, plan := range r.international {
		switch {
		case strings.HasPrefix(typed, plan.Code):
			if best < 0 || len(plan.Code) > len(r.international[best].Code) {
				best = i
			}
		case strings.HasPrefix(plan.Code, typed):
			// A longer code is still reachable; wait for more digits.
			return Detection{Kind: AmbiguousOrIncomplete, Stream: s}
		}
	}

	if best < 0 {
		return Detection{Kind: Unregistered, Stream: s}
	}

	plan := r.international[best]
	return Detection{
		Kind:     Matched,
		Stream:   s,
		Plan:     plan.clone(),
		National: typed[len(plan.Code):],
	}
}

// Detect matches a stream against the default registry.
func Detect(s DigitStream) Detection {
	return defaultRegistry.Detect(s)
}
