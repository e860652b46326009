// Package domain holds the phone field state machine. A Field owns the raw
// digit stream typed into one input and derives everything it shows from it.
package domain

import (
	"phoneinput_backend/platform/phone"
)

// State is the focus state of a field.
type State int

const (
	// Editing shows the raw stream verbatim.
	Editing State = iota
	// Committed shows the formatted stream after focus loss.
	Committed
)

func (s State) String() string {
	if s == Committed {
		return "committed"
	}
	return "editing"
}

// FieldValue is the persisted state of one field. The display string is
// never stored; it is derived from Raw and Committed.
type FieldValue struct {
	Raw       phone.DigitStream `json:"raw"`
	Committed bool              `json:"committed"`
}

// State returns the focus state encoded by the value.
func (v FieldValue) State() State {
	if v.Committed {
		return Committed
	}
	return Editing
}

// Snapshot is what a field reports to its owner after every event.
type Snapshot struct {
	Raw     phone.DigitStream
	Display string
	Invalid bool
	State   State
}

// Field is the controller for a single phone input. It is not safe for
// concurrent use; each input owns exactly one Field.
type Field struct {
	registry *phone.Registry
	value    FieldValue
	onChange func(Snapshot)
	onSave   func(string)
}

// Option configures a Field.
type Option func(*Field)

// WithRegistry replaces the default plan registry.
func WithRegistry(r *phone.Registry) Option {
	return func(f *Field) {
		if r != nil {
			f.registry = r
		}
	}
}

// WithOnChange registers the observer notified after every event.
func WithOnChange(fn func(Snapshot)) Option {
	return func(f *Field) { f.onChange = fn }
}

// WithOnSave registers the save callback, invoked once per commit with the
// formatted (or raw fallback) display string.
func WithOnSave(fn func(string)) Option {
	return func(f *Field) { f.onSave = fn }
}

// NewField mounts a field seeded from an externally supplied value.
func NewField(initial string, opts ...Option) *Field {
	return Restore(FieldValue{Raw: phone.Sanitize(initial)}, opts...)
}

// Restore rebuilds a field from a previously persisted value.
func Restore(value FieldValue, opts ...Option) *Field {
	f := &Field{registry: phone.Default(), value: value}
	for _, opt := range opts {
		opt(f)
	}
	// Persisted values may come from outside; keep the stream canonical.
	f.value.Raw = phone.Sanitize(value.Raw.String())
	return f
}

// Value returns the field's persisted state.
func (f *Field) Value() FieldValue {
	return f.value
}

// Display derives the string currently shown in the input.
func (f *Field) Display() string {
	if f.value.Committed {
		return f.registry.Format(f.value.Raw)
	}
	return f.value.Raw.String()
}

// Invalid reports whether the current raw stream is too short.
func (f *Field) Invalid() bool {
	return phone.IsInvalid(f.value.Raw)
}

// Snapshot returns the field's current derived views.
func (f *Field) Snapshot() Snapshot {
	return Snapshot{
		Raw:     f.value.Raw,
		Display: f.Display(),
		Invalid: f.Invalid(),
		State:   f.value.State(),
	}
}

// Change handles a host change notification carrying the full new content
// of the input. The content may still contain separators from a committed
// display; they are stripped by the sanitizer.
func (f *Field) Change(content string) Snapshot {
	f.value = FieldValue{Raw: phone.Sanitize(content)}
	return f.notify()
}

// Type appends typed text at the end of the current display.
func (f *Field) Type(text string) Snapshot {
	return f.Change(f.Display() + text)
}

// Edit applies a ranged edit to the current display.
func (f *Field) Edit(e Edit) Snapshot {
	return f.Change(e.Apply(f.Display()))
}

// Commit handles focus loss: the display switches to its formatted form and
// the save callback receives it.
func (f *Field) Commit() Snapshot {
	f.value.Committed = true
	snap := f.Snapshot()
	if f.onSave != nil {
		f.onSave(snap.Display)
	}
	f.emit(snap)
	return snap
}

// Sync reseeds the field from an owner-controlled value. The raw stream is
// only replaced when the sanitized value differs from it, so an owner echoing
// back the saved display does not disturb the field. It reports whether the
// field changed.
func (f *Field) Sync(external string) (Snapshot, bool) {
	raw := phone.Sanitize(external)
	if raw == f.value.Raw {
		return f.Snapshot(), false
	}
	f.value.Raw = raw
	return f.notify(), true
}

func (f *Field) notify() Snapshot {
	snap := f.Snapshot()
	f.emit(snap)
	return snap
}

func (f *Field) emit(snap Snapshot) {
	if f.onChange != nil {
		f.onChange(snap)
	}
}
