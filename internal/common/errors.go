package common

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeValidation        ErrorCode = "validation"
	CodeConflict          ErrorCode = "conflict"
	CodeInvalidTransition ErrorCode = "invalid_transition"
	CodeNotFound          ErrorCode = "not_found"
	CodeForbidden         ErrorCode = "forbidden"
	CodeInternal          ErrorCode = "internal"
)

type Error struct {
	Code    ErrorCode
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code ErrorCode) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// CodeOf extracts the error code, defaulting to CodeInternal for unknown errors.
func CodeOf(err error) ErrorCode {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}
