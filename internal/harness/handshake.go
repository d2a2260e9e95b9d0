package harness

import (
	"context"
	"time"
)

// ServerInfo identifies the server as reported during initialize.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the subset of the initialize response the harness
// inspects.
type InitializeResult struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ServerInfo      ServerInfo `json:"serverInfo"`
}

// Handshake performs the standard MCP startup exchange: an initialize
// request followed by the initialized notification once the response
// arrives. It returns the server's reported identity.
func Handshake(ctx context.Context, c *Client, timeout time.Duration) (InitializeResult, error) {
	params := map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "test-harness",
			"version": "1.0.0",
		},
	}

	var result InitializeResult
	if err := c.BlockingCall(ctx, timeout, "initialize", params, &result); err != nil {
		return InitializeResult{}, err
	}

	if err := c.Notify(ctx, "initialized", nil); err != nil {
		return InitializeResult{}, err
	}

	return result, nil
}

// Ping sends a ping request and verifies a response comes back within the
// timeout. The result payload is empty so only arrival matters.
func Ping(ctx context.Context, c *Client, timeout time.Duration) error {
	return c.BlockingCall(ctx, timeout, "ping", nil, nil)
}
