package wizard

import (
	"errors"
	"strings"
)

var (
	ErrDraftNotFound     = errors.New("draft not found")
	ErrInvalidTransition = errors.New("transition not allowed from current step")
	ErrTerminal          = errors.New("claim already submitted")
	ErrValidation        = errors.New("validation failed")
)

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists the form fields that stopped a transition. The draft stays on its step.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "invalid fields: " + strings.Join(names, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
