package inference

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// isTransient reports whether err is worth retrying: a gRPC status that
// indicates a temporary upstream condition (overloaded, unavailable,
// aborted mid-call) rather than a request the service will never accept.
// Context errors and malformed-response errors are never transient —
// retrying a cancelled call or a structurally broken response wastes an
// attempt without any chance of succeeding.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrResponseMalformed) {
		return false
	}

	st, ok := status.FromError(err)
	if !ok {
		return false
	}

	switch st.Code() {
	case codes.Unavailable, codes.ResourceExhausted, codes.Aborted, codes.Internal, codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}
