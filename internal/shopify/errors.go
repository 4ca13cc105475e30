package shopify

import (
	"errors"
	"fmt"
)

// UpstreamError is returned for every non-2xx answer of the Admin API.
type UpstreamError struct {
	Op     string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Details())
}

// Details is the part of the error that is safe to hand back to the caller.
func (e *UpstreamError) Details() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// ErrNoLocation is returned when a shop has no stock location configured.
var ErrNoLocation = errors.New("no valid location found")
