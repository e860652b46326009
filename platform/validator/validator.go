// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import "github.com/go-playground/validator/v10"

// MaxPhoneInputBytes bounds the text a single phone input request may carry.
// Content is otherwise unrestricted; the sanitizer drops what is not a digit.
const MaxPhoneInputBytes = 4096

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance with the shared custom rules
// registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("phoneinput", validatePhoneInput)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// validatePhoneInput only bounds the payload size. Pasted tabs, newlines,
// letters and broken UTF-8 are all left to the sanitizer.
func validatePhoneInput(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxPhoneInputBytes
}
