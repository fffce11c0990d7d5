package response

import "fmt"

// Error codes shared by the service and handler layers
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	ErrCodeCodeSpaceExhausted = "CODE_SPACE_EXHAUSTED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// AppError is a typed service-layer error carrying a stable code that the
// handler layer maps to an HTTP status
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with the given code and message
func NewAppError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// WrapAppError creates an AppError wrapping an underlying cause
func WrapAppError(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewRoomNotFoundError reports an unknown room code
func NewRoomNotFoundError(roomCode string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("room %s not found", roomCode))
}
