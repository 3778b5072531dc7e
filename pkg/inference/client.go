package inference

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// callMethod is the single gRPC method every operation invokes. The
// upstream model service accepts a dynamic "parts in, structured-or-text
// out" payload rather than exposing one RPC per operation, so there is
// no generated service client to call through — every request is a
// generic unary Invoke carrying a structpb.Struct.
const callMethod = "/housecheck.inference.v1.InferenceService/Complete"

// Client is a thin wrapper around a gRPC connection to the vision/text
// model service. Requests and responses are structpb.Struct values built
// and read by the callers in this package (see request.go, response.go).
type Client struct {
	conn *grpc.ClientConn
}

// NewClient dials addr using insecure (plaintext) transport. The model
// service is expected to run as a sidecar or on the local network; if it
// is ever exposed across a network boundary this must be upgraded to TLS.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create inference client for %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// invoke sends req and decodes the response into a structpb.Struct. It
// does not interpret the payload — callers translate to/from domain
// types (see request.go/response.go).
func (c *Client) invoke(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, callMethod, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
