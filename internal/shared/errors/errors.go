package errors

import (
	"errors"
	"fmt"
)

// ErrorType is the category of an application error. Handlers map it to an
// HTTP status.
type ErrorType string

const (
	ErrorTypeNotFound         ErrorType = "not_found"
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeConflict         ErrorType = "conflict"
	ErrorTypeUnauthorized     ErrorType = "unauthorized"
	ErrorTypeForbidden        ErrorType = "forbidden"
	ErrorTypeInternal         ErrorType = "internal"
	ErrorTypeMethodNotAllowed ErrorType = "method_not_allowed"
	ErrorTypeExternal         ErrorType = "external"
	// ErrorTypeUnprocessable is a well-formed request that cannot be satisfied,
	// such as a rule set no galaxy meets within the retry limit.
	ErrorTypeUnprocessable ErrorType = "unprocessable"
)

type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFoundf(format string, args ...any) error {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

func Validation(message string) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

func Validationf(format string, args ...any) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

func WrapValidation(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Err:     err,
	}
}

func Conflictf(format string, args ...any) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: fmt.Sprintf(format, args...),
	}
}

func WrapInternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

func Unauthorized(message string) error {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

func WrapUnauthorized(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
		Err:     err,
	}
}

func Forbidden(message string) error {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Message: message,
	}
}

func MethodNotAllowed(method string) error {
	return &AppError{
		Type:    ErrorTypeMethodNotAllowed,
		Message: fmt.Sprintf("method %s not allowed", method),
	}
}

func WrapExternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

func WrapUnprocessable(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeUnprocessable,
		Message: message,
		Err:     err,
	}
}

// GetType returns the type of the outermost AppError in err's chain, or
// ErrorTypeInternal if there is none.
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}
