package common

import "strings"

// ValidationError carries every problem found with a request so the caller
// can show all of them at once. It matches ErrorValidation via errors.Is.
type ValidationError struct {
	Code       string
	Violations []string
}

// NewValidationError builds a ValidationError with the given machine code.
func NewValidationError(code string, violations ...string) *ValidationError {
	return &ValidationError{Code: code, Violations: violations}
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrorValidation.Error()
	}
	return ErrorValidation.Error() + ": " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
