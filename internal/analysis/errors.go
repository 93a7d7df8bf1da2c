package analysis

import (
	"errors"
	"fmt"
)

// ErrNoInput is returned when neither a description nor an image was given.
var ErrNoInput = errors.New("description or image is required")

// UpstreamError wraps a failure of the model provider: unreachable,
// non-2xx, or a reply that could not be parsed. It is surfaced to the
// caller without any local retry.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
