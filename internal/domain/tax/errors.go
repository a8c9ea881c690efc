package tax

import (
	"errors"
	"strings"
)

var (
	ErrUnknownPeriod = errors.New("unknown pay period")
	ErrInvalidInput  = errors.New("invalid payroll input")
	ErrInvalidTables = errors.New("invalid tax tables")
)

type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every rejected field of an Input.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+" "+issue.Reason)
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
