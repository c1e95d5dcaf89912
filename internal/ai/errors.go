package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned by every operation when no model credential is set.
	ErrNotConfigured = errors.New("AI not configured")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnanswered    = errors.New("all questions must be answered")
)

// OperationError wraps a model failure. Error returns the provider message unchanged.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return e.Err.Error()
}

func (e *OperationError) Unwrap() error { return e.Err }

// notConfigured names the credential variable the selected provider reads.
func notConfigured(provider string) error {
	keyVar := "GEMINI_API_KEY"
	if provider == "openai" {
		keyVar = "OPENAI_API_KEY"
	}
	return fmt.Errorf("%w: set %s in backend environment.", ErrNotConfigured, keyVar)
}
