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
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeIngest       = "INGEST_ERROR"
	ErrCodeStoreMissing = "STORE_MISSING"
	ErrCodeNoContext    = "NO_CONTEXT"
	ErrCodeGeneration   = "GENERATION_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuestion = NewDomainError(ErrCodeValidation, "question is required")
	ErrMissingFile   = NewDomainError(ErrCodeValidation, "file is required")
)

// Ingest errors
var (
	ErrUnreadablePDF = NewDomainError(ErrCodeIngest, "uploaded file is not a parseable PDF")
	ErrEmptyDocument = NewDomainError(ErrCodeIngest, "document contains no extractable text")
)

// Retrieval errors
var (
	ErrIndexMissing      = NewDomainError(ErrCodeStoreMissing, "no index has been built yet")
	ErrNoRelevantContext = NewDomainError(ErrCodeNoContext, "no relevant content found in the uploaded resume")
)

// Generation errors
var (
	ErrMissingAPIKey = NewDomainError(ErrCodeGeneration, "generator API key is not configured")
)
