package templates

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no template has the requested ID.
var ErrNotFound = errors.New("template not found")

// ValidationError reports template content that cannot be stored.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid template %s: %s", e.Field, e.Message)
}
