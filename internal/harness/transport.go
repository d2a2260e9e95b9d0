package harness

import (
	"context"

	"github.com/codeintel/mcp-test-server/internal/jsonrpc"
)

// Transport defines the minimal interface the client drives a server over.
type Transport interface {
	Start(ctx context.Context) error
	Send(ctx context.Context, message jsonrpc.Message) error
	Close() error
	OnMessage(func(jsonrpc.Message))
	OnError(func(error))
	OnClose(func())
}
