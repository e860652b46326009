package phone

import "testing"

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want DigitStream
	}{
		{"", ""},
		{"abc", ""},
		{"010abc123", "010123"},
		{"010-1234-5678", "01012345678"},
		{"+86 138 9832 1900", "+8613898321900"},
		{"+", "+"},
		{"++82", "+82"},
		{"82+10", "8210"},
		{"  +1 (234) 567-8900 ", "+12345678900"},
		{"０１０－１２３４", "0101234"},
		{"＋８２", "+82"},
		{"٣٤٥", ""},
	}

	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		in       DigitStream
		kind     DetectionKind
		plan     string
		national string
	}{
		{"", NoMarker, "", ""},
		{"0", Matched, "domestic", "0"},
		{"01012345678", Matched, "domestic", "01012345678"},
		{"+", AmbiguousOrIncomplete, "", ""},
		{"+8", AmbiguousOrIncomplete, "", ""},
		{"+82", Matched, "+82", ""},
		{"+821012345678", Matched, "+82", "1012345678"},
		{"+86", Matched, "+86", ""},
		{"+8613898321900", Matched, "+86", "13898321900"},
		{"+1", Matched, "+1", ""},
		{"+12345678900", Matched, "+1", "2345678900"},
		{"+44", Unregistered, "", ""},
		{"+8", AmbiguousOrIncomplete, "", ""},
		{"+89", Unregistered, "", ""},
	}

	for _, tc := range cases {
		got := Detect(tc.in)
		if got.Kind != tc.kind {
			t.Errorf("Detect(%q).Kind = %v, want %v", tc.in, got.Kind, tc.kind)
			continue
		}
		if tc.kind != Matched {
			continue
		}
		if got.Plan.Label() != tc.plan {
			t.Errorf("Detect(%q).Plan = %q, want %q", tc.in, got.Plan.Label(), tc.plan)
		}
		if got.National != tc.national {
			t.Errorf("Detect(%q).National = %q, want %q", tc.in, got.National, tc.national)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   DigitStream
		want string
	}{
		{"", ""},
		{"010123", "010123"},
		{"0101234567", "010-123-4567"},
		{"01012345678", "010-1234-5678"},
		{"010123456789", "010123456789"},
		{"+8613898321900", "+86 138 9832 1900"},
		{"+861389832190", "+861389832190"},
		{"+12345678900", "+1 234 567 8900"},
		{"+1234567890", "+1234567890"},
		{"+82101234567", "010-123-4567"},
		{"+821012345678", "010-1234-5678"},
		{"+8210123", "+8210123"},
		{"+8", "+8"},
		{"+", "+"},
		{"+442071234567", "+442071234567"},
	}

	for _, tc := range cases {
		if got := Format(tc.in); got != tc.want {
			t.Errorf("Format(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsInvalid(t *testing.T) {
	cases := []struct {
		in   DigitStream
		want bool
	}{
		{"", true},
		{"+", true},
		{"010123", true},
		{"+123456", true},
		{"0101235", false},
		{"+1234567", false},
		{"01012345678", false},
	}

	for _, tc := range cases {
		if got := IsInvalid(tc.in); got != tc.want {
			t.Errorf("IsInvalid(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	res := Evaluate("010abc123")
	if res.Raw != "010123" {
		t.Fatalf("expected raw 010123, got %q", res.Raw)
	}
	if res.Display != "010123" {
		t.Fatalf("expected raw fallback display, got %q", res.Display)
	}
	if !res.Invalid {
		t.Fatal("expected six digits to be invalid")
	}

	res = Evaluate("abc")
	if res.Raw != "" || res.Display != "" || !res.Invalid {
		t.Fatalf("expected empty invalid result, got %+v", res)
	}
	if res.Detection.Kind != NoMarker {
		t.Fatalf("expected no_marker detection, got %v", res.Detection.Kind)
	}
}

func TestRegistryE164(t *testing.T) {
	got, ok := Default().E164("+821012345678")
	if !ok || got != "+821012345678" {
		t.Fatalf("expected +821012345678, got %q (ok=%v)", got, ok)
	}
	got, ok = Default().E164("01012345678")
	if !ok || got != "+821012345678" {
		t.Fatalf("expected domestic number in KR region, got %q (ok=%v)", got, ok)
	}
	if _, ok := Default().E164("010123"); ok {
		t.Fatal("expected short number to be rejected")
	}
}

func TestMask(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"010-1234-5678", "***-****-5678"},
		{"+86 138 9832 1900", "+** *** **** 1900"},
		{"1234", "***4"},
		{"1", "1"},
	}

	for _, tc := range cases {
		if got := Mask(tc.in); got != tc.want {
			t.Errorf("Mask(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
