package apierrors

import (
	"github.com/pkg/errors"
)

var (
	ErrNotFound   = errors.New("no data")
	ErrBadRequest = errors.New("bad request")
	ErrInternal   = errors.New("internal error")
)

type LocalizedError interface {
	GetMessage() string
}

// ValidationError carries a message that is returned to the API user as is.
type ValidationError struct {
	message string
}

func NewValidationError(m string) *ValidationError {
	return &ValidationError{message: m}
}

func NewValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{message: errors.Errorf(format, args...).Error()}
}

func (e ValidationError) Error() string {
	return e.message
}

func (e ValidationError) GetMessage() string {
	return e.message
}
