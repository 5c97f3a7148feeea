package apperrors

import "errors"

var (
	ErrNotFound        = errors.New("entity not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrStorage         = errors.New("storage failure")
)

// ErrorCodes maps sentinel errors to stable codes for logs and callers
// that need a string identity rather than an error chain.
var ErrorCodes = map[error]string{
	ErrNotFound:        "NOT_FOUND",
	ErrConflict:        "CONFLICT",
	ErrUnauthenticated: "UNAUTHENTICATED",
	ErrForbidden:       "FORBIDDEN",
	ErrValidation:      "VALIDATION_FAILED",
	ErrStorage:         "STORAGE_FAILURE",
}

// Code resolves err to a stable code, walking the wrap chain.
func Code(err error) string {
	for sentinel, code := range ErrorCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return "INTERNAL_ERROR"
}
