package service

// ValidationError marks caller input as malformed or missing. It is always
// recoverable and surfaces to the caller as a 4xx-equivalent; it is never
// retried.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}
