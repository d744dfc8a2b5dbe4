package entities

import (
	"errors"
	"fmt"
)

// ErrorType categorizes pipeline failures
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeModel      ErrorType = "model"
	ErrorTypeAssembly   ErrorType = "assembly"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeInternal   ErrorType = "internal"
)

// DeckError carries a categorized failure through the pipeline
type DeckError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *DeckError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *DeckError) Unwrap() error {
	return e.Cause
}

// NewValidationError reports bad caller input
func NewValidationError(message string) *DeckError {
	return &DeckError{Type: ErrorTypeValidation, Message: message}
}

// NewAssemblyError reports a template that could not be turned into a deck
func NewAssemblyError(message string, cause error) *DeckError {
	return &DeckError{Type: ErrorTypeAssembly, Message: message, Cause: cause}
}

// NewStorageError reports a workspace or filesystem failure
func NewStorageError(message string, cause error) *DeckError {
	return &DeckError{Type: ErrorTypeStorage, Message: message, Cause: cause}
}

// NewModelError reports a completion-service failure
func NewModelError(message string, cause error) *DeckError {
	return &DeckError{Type: ErrorTypeModel, Message: message, Cause: cause}
}

// ErrorTypeOf returns the category of err, or ErrorTypeInternal
func ErrorTypeOf(err error) ErrorType {
	var deckErr *DeckError
	if errors.As(err, &deckErr) {
		return deckErr.Type
	}
	return ErrorTypeInternal
}

// IsValidation returns true for caller input errors
func IsValidation(err error) bool {
	return ErrorTypeOf(err) == ErrorTypeValidation
}
