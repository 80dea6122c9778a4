package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeContext       = "CONTEXT_ERROR"
	ErrCodeDownstream    = "DOWNSTREAM_ERROR"
	ErrCodeTranscription = "TRANSCRIPTION_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuery = NewDomainError(ErrCodeValidation, "query cannot be empty")
)

// Retrieval errors
var (
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")
	ErrContextUnusable  = NewDomainError(ErrCodeContext, "failed to load document context")
)

// Index errors
var (
	ErrIndexModelMismatch = NewDomainError(ErrCodeInternalError, "index was built with a different embedding model")
	ErrIndexNotBuilt      = NewDomainError(ErrCodeInternalError, "semantic index has not been built")
)
