package inference

import (
	"errors"
	"fmt"
)

// ErrUpstreamFatal wraps an upstream failure that persisted through every
// retry attempt (or that was never retryable to begin with, e.g. an
// invalid-argument response). Callers should treat it as a fatal failure
// of the call, not something a caller-level retry would fix.
var ErrUpstreamFatal = errors.New("inference upstream call failed permanently")

// ErrResponseMalformed is returned when a response was received but its
// content could not be interpreted as the expected shape (no "content"
// field, or a "content" that is neither a string nor an object; a
// non-struct "usage" field yields zero usage, not this error). This is distinct from a
// transport failure: the RPC succeeded, the payload didn't make sense.
var ErrResponseMalformed = errors.New("inference response was malformed")

// UpstreamError reports which call failed and whether the failure was
// transient (the caller may retry) or fatal (retries are exhausted or the
// failure is not retryable at all).
type UpstreamError struct {
	Label     string
	Transient bool
	Err       error
}

func (e *UpstreamError) Error() string {
	kind := "fatal"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("inference call %q failed (%s): %v", e.Label, kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
