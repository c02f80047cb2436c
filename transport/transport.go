// Package transport provides JSON-RPC transports for the host-side
// preflight. The guest never opens a connection; only bundle construction
// talks to a node.
package transport

import (
	"context"
)

// Transport sends JSON-RPC requests and returns raw responses.
type Transport interface {
	// Call sends a JSON-RPC request and returns the result bytes.
	Call(ctx context.Context, method string, params ...interface{}) ([]byte, error)

	// Close terminates the transport connection.
	Close() error
}
