// Package apperr holds the errors that handlers translate into HTTP answers.
package apperr

import "errors"

// ErrSessionMissing means no authenticated shop is attached to the request.
var ErrSessionMissing = errors.New("No valid Shopify session found.")

// ValidationError rejects a request before any upstream call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
