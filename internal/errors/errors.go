package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeMalformedInput = "MALFORMED_INPUT"
	ErrCodeNoQuestions    = "NO_QUESTIONS_AVAILABLE"
	ErrCodePersistence    = "PERSISTENCE_FAILURE"
	ErrCodeConflict       = "CONFLICT"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "MALFORMED_INPUT")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewMalformedInputError reports a question file whose top-level shape is
// neither an array nor an object with a questions array. The file is skipped;
// ingestion of remaining files proceeds.
func NewMalformedInputError(filename string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedInput,
		Message: fmt.Sprintf("file %q is not a question array or {questions: [...]} object", filename),
		Status:  422,
		Err:     err,
	}
}

// NewNoQuestionsError reports a selection or quiz scope that resolved to zero
// questions. Non-fatal; no state changes.
func NewNoQuestionsError(scope string) *AppError {
	return &AppError{
		Code:    ErrCodeNoQuestions,
		Message: fmt.Sprintf("no questions available for scope %q", scope),
		Status:  409,
	}
}

// NewPersistenceError wraps a storage read/write failure. The in-memory state
// of the operation that triggered it is left unchanged.
func NewPersistenceError(err error) *AppError {
	return &AppError{
		Code:    ErrCodePersistence,
		Message: "storage operation failed",
		Status:  500,
		Err:     err,
	}
}

// NewConflictError creates a new CONFLICT error
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  409,
	}
}
