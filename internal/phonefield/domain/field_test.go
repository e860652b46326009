package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// owner plays the parent component in controlled mode: it stores every saved
// value and feeds it back to the field on the next render.
type owner struct {
	value   string
	saves   []string
	changes []Snapshot
	field   *Field
}

func newOwner(initial string) *owner {
	o := &owner{value: initial}
	o.field = NewField(initial,
		WithOnSave(func(v string) {
			o.saves = append(o.saves, v)
			o.value = v
		}),
		WithOnChange(func(s Snapshot) {
			o.changes = append(o.changes, s)
		}),
	)
	return o
}

func (o *owner) render() {
	o.field.Sync(o.value)
}

type step struct {
	input    string
	expected string
}

func runSteps(t *testing.T, o *owner, steps []step, commit bool) {
	t.Helper()
	for i, s := range steps {
		snap := o.field.Type(s.input)
		if commit {
			snap = o.field.Commit()
			o.render()
			snap = o.field.Snapshot()
		}
		if snap.Display != s.expected {
			t.Fatalf("step %d (%q): expected display %q, got %q", i, s.input, s.expected, snap.Display)
		}
	}
}

func sequence(inputs, expected []string) []step {
	steps := make([]step, len(inputs))
	for i := range inputs {
		steps[i] = step{input: inputs[i], expected: expected[i]}
	}
	return steps
}

func TestDomesticNumberKeepsRawWhileFocused(t *testing.T) {
	o := newOwner("")
	steps := sequence(
		[]string{"0", "1", "0", "1", "2", "3", "4", "5", "6", "7", "8"},
		[]string{"0", "01", "010", "0101", "01012", "010123", "0101234", "01012345", "010123456", "0101234567", "01012345678"},
	)
	runSteps(t, o, steps, false)

	if len(o.saves) != 0 {
		t.Fatalf("save callback must not fire while editing, got %v", o.saves)
	}
	last := o.changes[len(o.changes)-1]
	if last.Display != "01012345678" || last.State != Editing {
		t.Fatalf("unexpected last change: %+v", last)
	}
}

func TestDomesticNumberFormatsOnCommit(t *testing.T) {
	o := newOwner("")
	steps := sequence(
		[]string{"0", "1", "0", "1", "2", "3", "4", "5", "6", "7", "8"},
		[]string{"0", "01", "010", "0101", "01012", "010123", "0101234", "01012345", "010123456", "010-123-4567", "010-1234-5678"},
	)
	runSteps(t, o, steps, true)

	if got := o.saves[len(o.saves)-1]; got != "010-1234-5678" {
		t.Fatalf("expected last save 010-1234-5678, got %q", got)
	}
	if len(o.saves) != len(steps) {
		t.Fatalf("expected one save per commit, got %d saves for %d commits", len(o.saves), len(steps))
	}
}

func TestInternationalNumbers(t *testing.T) {
	cases := []struct {
		name      string
		inputs    []string
		focused   string
		committed []string
	}{
		{
			name:    "china",
			inputs:  []string{"+", "8", "6", "1", "3", "8", "9", "8", "3", "2", "1", "9", "0", "0"},
			focused: "+8613898321900",
			committed: []string{"+", "+8", "+86", "+861", "+8613", "+86138", "+861389", "+8613898", "+86138983",
				"+861389832", "+8613898321", "+86138983219", "+861389832190", "+86 138 9832 1900"},
		},
		{
			name:    "united states",
			inputs:  []string{"+", "1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "0"},
			focused: "+12345678900",
			committed: []string{"+", "+1", "+12", "+123", "+1234", "+12345", "+123456", "+1234567", "+12345678",
				"+123456789", "+1234567890", "+1 234 567 8900"},
		},
		{
			name:    "korea via international code",
			inputs:  []string{"+", "8", "2", "1", "0", "1", "2", "3", "4", "5", "6", "7", "8"},
			focused: "+821012345678",
			committed: []string{"+", "+8", "+82", "+821", "+8210", "+82101", "+821012", "+8210123", "+82101234",
				"+821012345", "+8210123456", "010-123-4567", "010-1234-5678"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name+" focused", func(t *testing.T) {
			o := newOwner("")
			for _, in := range tc.inputs {
				o.field.Type(in)
			}
			if got := o.field.Display(); got != tc.focused {
				t.Fatalf("expected %q, got %q", tc.focused, got)
			}
			if len(o.saves) != 0 {
				t.Fatalf("unexpected saves: %v", o.saves)
			}
		})

		t.Run(tc.name+" committed", func(t *testing.T) {
			o := newOwner("")
			runSteps(t, o, sequence(tc.inputs, tc.committed), true)
			want := tc.committed[len(tc.committed)-1]
			if got := o.saves[len(o.saves)-1]; got != want {
				t.Fatalf("expected last save %q, got %q", want, got)
			}
		})
	}
}

func TestGarbageInput(t *testing.T) {
	o := newOwner("")
	runSteps(t, o, []step{{input: "abc", expected: ""}}, true)
	if o.saves[0] != "" || !o.field.Invalid() {
		t.Fatalf("expected empty invalid save, got %q invalid=%v", o.saves[0], o.field.Invalid())
	}

	o = newOwner("")
	runSteps(t, o, []step{{input: "010abc123", expected: "010123"}}, true)
	if o.saves[0] != "010123" || !o.field.Invalid() {
		t.Fatalf("expected raw fallback save, got %q invalid=%v", o.saves[0], o.field.Invalid())
	}
}

func TestInvalidOnMount(t *testing.T) {
	if f := NewField("010123"); !f.Invalid() {
		t.Fatal("six digits must be invalid")
	}
	if f := NewField("0101235"); f.Invalid() {
		t.Fatal("seven digits must be valid")
	}
	if f := NewField("010-1234-5678"); f.Snapshot().Raw != "01012345678" {
		t.Fatalf("initial value must be sanitized, got %q", f.Snapshot().Raw)
	}
}

func TestEditOnCommittedDisplay(t *testing.T) {
	f := NewField("01012345678")
	f.Commit()
	if f.Display() != "010-1234-5678" {
		t.Fatalf("unexpected display %q", f.Display())
	}

	snap := f.Edit(Backspace(len([]rune(f.Display()))))
	if snap.Raw != "0101234567" || snap.Display != "0101234567" || snap.State != Editing {
		t.Fatalf("unexpected snapshot after backspace: %+v", snap)
	}

	snap = f.Edit(Edit{Start: 0, End: 3, Text: "+8210"})
	if snap.Raw != "+82101234567" {
		t.Fatalf("unexpected raw after replace: %q", snap.Raw)
	}

	snap = f.Edit(Edit{Start: 3, End: 3, Text: "+"})
	if snap.Raw != "+82101234567" {
		t.Fatalf("a marker typed mid-stream must be dropped, got %q", snap.Raw)
	}
}

func TestChangeStripsStalePunctuation(t *testing.T) {
	f := NewField("")
	f.Change("+8613898321900")
	f.Commit()

	snap := f.Change("+86 138 9832 19001")
	if snap.Raw != "+86138983219001" || snap.Display != "+86138983219001" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestSyncReseedsOnlyOnDifference(t *testing.T) {
	var changes int
	f := NewField("0101234567", WithOnChange(func(Snapshot) { changes++ }))

	if _, changed := f.Sync("010-123-4567"); changed {
		t.Fatal("equivalent external value must not reseed")
	}
	if changes != 0 {
		t.Fatalf("expected no change notification, got %d", changes)
	}

	snap, changed := f.Sync("+8613898321900")
	if !changed || snap.Raw != "+8613898321900" {
		t.Fatalf("expected reseed, got %+v changed=%v", snap, changed)
	}
	if changes != 1 {
		t.Fatalf("expected one change notification, got %d", changes)
	}
}

func TestRestoreKeepsCommittedState(t *testing.T) {
	f := Restore(FieldValue{Raw: "+12345678900", Committed: true})
	if f.Display() != "+1 234 567 8900" || f.Snapshot().State != Committed {
		t.Fatalf("unexpected restored snapshot: %+v", f.Snapshot())
	}

	f = Restore(FieldValue{Raw: "01a0"})
	if f.Value().Raw != "010" {
		t.Fatalf("restored raw must be canonical, got %q", f.Value().Raw)
	}
}

func TestNoFormattingWhileEditing(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("every keystroke snapshot shows the raw stream", prop.ForAll(
		func(initial string, keys []string) bool {
			f := NewField(initial)
			f.Commit()
			for _, k := range keys {
				snap := f.Type(k)
				if snap.Display != snap.Raw.String() || snap.State != Editing {
					return false
				}
			}
			return true
		},
		gen.NumString(),
		gen.SliceOf(gen.OneGenOf(gen.NumString(), gen.AlphaString(), gen.Const("+"), gen.Const("-"))),
	))

	properties.TestingRun(t)
}

func TestEditApply(t *testing.T) {
	cases := []struct {
		content string
		edit    Edit
		want    string
	}{
		{"0101", Edit{Start: 4, End: 4, Text: "2"}, "01012"},
		{"0101", Backspace(4), "010"},
		{"0101", Backspace(0), "0101"},
		{"0101", Edit{Start: -3, End: 99, Text: "7"}, "7"},
		{"０１", Edit{Start: 1, End: 2, Text: "0"}, "０0"},
		{"abc", Edit{Start: 2, End: 1, Text: "x"}, "abxc"},
	}

	for _, tc := range cases {
		if got := tc.edit.Apply(tc.content); got != tc.want {
			t.Errorf("%+v.Apply(%q) = %q, want %q", tc.edit, tc.content, got, tc.want)
		}
	}
}
