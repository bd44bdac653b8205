package services

import "fmt"

// ValidationError is a field-level input failure, surfaced inline
// next to the offending input by the panel UI.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
