// Package harness drives a line-oriented JSON-RPC server from the client
// side: it correlates requests with responses, fires notifications, and
// performs the MCP initialize exchange a real client would open with.
package harness

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codeintel/mcp-test-server/internal/jsonrpc"
)

// Client is a minimal JSON-RPC client built on top of a Transport.
type Client struct {
	transport Transport
	requests  sync.Map // quoted id -> chan jsonrpc.Message
	onClose   func()
}

// NewClient creates a client bound to the provided transport.
func NewClient(transport Transport) *Client {
	c := &Client{transport: transport}

	transport.OnMessage(func(msg jsonrpc.Message) {
		var resp jsonrpc.Response
		if err := json.Unmarshal(msg.Bytes(), &resp); err != nil {
			return
		}

		if len(resp.ID) == 0 {
			return
		}

		if ch, ok := c.requests.LoadAndDelete(string(resp.ID)); ok {
			ch.(chan jsonrpc.Message) <- msg
		}
	})

	transport.OnClose(func() {
		if c.onClose != nil {
			c.onClose()
		}
	})

	return c
}

// Start starts the underlying transport.
func (c *Client) Start(ctx context.Context) error {
	return c.transport.Start(ctx)
}

// Close shuts down the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

// OnClose registers a callback invoked when the underlying transport closes.
func (c *Client) OnClose(f func()) {
	c.onClose = f
}

// Notify sends a notification, a request without an id that expects no
// response.
func (c *Client) Notify(ctx context.Context, method string, params any) error {
	payload := map[string]any{
		"jsonrpc": jsonrpc.Version,
		"method":  method,
	}
	if params != nil {
		payload["params"] = params
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return c.transport.Send(ctx, jsonrpc.NewMessage(raw))
}

// Call sends a request and blocks until the matching response arrives or
// ctx is done. Request ids are random so calls from concurrent harnesses
// sharing one server never collide.
func (c *Client) Call(ctx context.Context, method string, params any) (jsonrpc.Message, error) {
	id := uuid.NewString()

	payload := map[string]any{
		"jsonrpc": jsonrpc.Version,
		"id":      id,
		"method":  method,
	}
	if params != nil {
		payload["params"] = params
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return jsonrpc.Message{}, err
	}

	idBytes, err := json.Marshal(id)
	if err != nil {
		return jsonrpc.Message{}, err
	}
	idKey := string(idBytes)
	ch := make(chan jsonrpc.Message, 1)
	c.requests.Store(idKey, ch)

	if err := c.transport.Send(ctx, jsonrpc.NewMessage(raw)); err != nil {
		c.requests.Delete(idKey)
		return jsonrpc.Message{}, err
	}

	select {
	case <-ctx.Done():
		c.requests.Delete(idKey)
		return jsonrpc.Message{}, ctx.Err()
	case msg := <-ch:
		return msg, nil
	}
}

// BlockingCall is a helper that performs Call with a timeout.
func (c *Client) BlockingCall(ctx context.Context, timeout time.Duration, method string, params any, target any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}

	return AwaitResult(msg, target)
}

// AwaitResult decodes a JSON-RPC response message into target.
func AwaitResult(msg jsonrpc.Message, target any) error {
	var resp jsonrpc.Response
	if err := json.Unmarshal(msg.Bytes(), &resp); err != nil {
		return err
	}

	if resp.Error != nil {
		return errors.New(resp.Error.Message)
	}

	if target == nil {
		return nil
	}

	if len(resp.Result) == 0 {
		return errors.New("empty result payload")
	}

	return json.Unmarshal(resp.Result, target)
}
