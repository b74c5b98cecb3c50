package service

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrBadCredentials = errors.New("bad credentials")
)

// ValidationError marks client input the handlers map to a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
