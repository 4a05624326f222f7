package service

import "errors"

var (
	// ErrNotFound is returned when a recipe does not exist
	ErrNotFound = errors.New("recipe not found")
	// ErrNotOwner is returned when a caller tries to delete someone else's recipe
	ErrNotOwner = errors.New("unauthorized")
	// ErrUpstream is returned when the media store fails during create
	ErrUpstream = errors.New("media store failure")
	// ErrInvalidToken is returned for any credential the resolver cannot accept
	ErrInvalidToken = errors.New("token is not valid")
)

// ValidationError reports malformed or missing input; its message is safe to
// return to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
