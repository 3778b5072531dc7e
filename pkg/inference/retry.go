package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryPolicy returns a fresh exponential backoff bound to ctx, configured
// for at least six attempts on a transient failure before giving up.
// WithMaxRetries wraps the exponential backoff so MaxElapsedTime alone
// (which is time-based and could cut off early on a slow network) never
// determines the attempt count on its own.
func retryPolicy(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 250 * time.Millisecond
	eb.MaxInterval = 8 * time.Second
	eb.MaxElapsedTime = 0 // bounded by MaxRetries instead, below

	return backoff.WithContext(backoff.WithMaxRetries(eb, 6), ctx)
}

// callWithRetry runs fn under retryPolicy, translating a fatal failure
// (fn returned a non-transient error, or retries were exhausted) into an
// *UpstreamError wrapping ErrUpstreamFatal.
func callWithRetry(ctx context.Context, label string, fn func() error) error {
	op := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if isTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.Retry(op, retryPolicy(ctx))
	if err == nil {
		return nil
	}

	var perm *backoff.PermanentError
	if pe, ok := err.(*backoff.PermanentError); ok {
		perm = pe
	}
	cause := err
	if perm != nil {
		cause = perm.Err
	}
	if !errors.Is(cause, ErrUpstreamFatal) {
		cause = fmt.Errorf("%w: %w", ErrUpstreamFatal, cause)
	}

	return &UpstreamError{Label: label, Transient: false, Err: cause}
}
