package jsonrpc_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeintel/mcp-test-server/internal/jsonrpc"
)

func TestMessage(t *testing.T) {
	t.Run("creates and marshals message", func(t *testing.T) {
		originalJSON := `{"jsonrpc": "2.0", "id": 1, "method": "test"}`
		msg := jsonrpc.NewMessage([]byte(originalJSON))

		marshaled, err := json.Marshal(msg)
		require.NoError(t, err)
		require.JSONEq(t, originalJSON, string(marshaled))
	})

	t.Run("preserves original bytes", func(t *testing.T) {
		originalJSON := `{"jsonrpc": "2.0", "id": 1, "method": "test"}`
		msg := jsonrpc.NewMessage([]byte(originalJSON))

		require.Equal(t, []byte(originalJSON), msg.Bytes())
	})

	t.Run("unmarshals from JSON", func(t *testing.T) {
		originalJSON := `{"jsonrpc": "2.0", "id": 1, "method": "test"}`

		var msg jsonrpc.Message
		err := json.Unmarshal([]byte(originalJSON), &msg)
		require.NoError(t, err)
		require.Equal(t, []byte(originalJSON), msg.Bytes())
	})
}

func TestRequestID(t *testing.T) {
	t.Run("keeps numeric ids raw", func(t *testing.T) {
		var req jsonrpc.Request
		require.NoError(t, json.Unmarshal([]byte(`{"method":"ping","id":9007199254740993}`), &req))
		require.Equal(t, `9007199254740993`, string(req.ID))
	})

	t.Run("keeps string ids raw", func(t *testing.T) {
		var req jsonrpc.Request
		require.NoError(t, json.Unmarshal([]byte(`{"method":"ping","id":"abc"}`), &req))
		require.Equal(t, `"abc"`, string(req.ID))
	})

	t.Run("keeps null ids raw", func(t *testing.T) {
		var req jsonrpc.Request
		require.NoError(t, json.Unmarshal([]byte(`{"method":"ping","id":null}`), &req))
		require.Equal(t, `null`, string(req.ID))
	})

	t.Run("leaves absent ids empty", func(t *testing.T) {
		var req jsonrpc.Request
		require.NoError(t, json.Unmarshal([]byte(`{"method":"ping"}`), &req))
		require.Empty(t, req.ID)
	})
}

func TestResponseMarshaling(t *testing.T) {
	t.Run("orders fields as jsonrpc, result, id", func(t *testing.T) {
		resp := jsonrpc.Response{
			JSONRPC: jsonrpc.Version,
			Result:  json.RawMessage(`{}`),
			ID:      json.RawMessage(`"abc"`),
		}

		out, err := json.Marshal(resp)
		require.NoError(t, err)
		require.Equal(t, `{"jsonrpc":"2.0","result":{},"id":"abc"}`, string(out))
	})

	t.Run("omits an absent id", func(t *testing.T) {
		resp := jsonrpc.Response{
			JSONRPC: jsonrpc.Version,
			Result:  json.RawMessage(`{}`),
		}

		out, err := json.Marshal(resp)
		require.NoError(t, err)
		require.Equal(t, `{"jsonrpc":"2.0","result":{}}`, string(out))
	})
}

func TestIsNotification(t *testing.T) {
	t.Run("identifies notification without id", func(t *testing.T) {
		notification := `{"jsonrpc": "2.0", "method": "initialized"}`
		require.True(t, jsonrpc.IsNotification([]byte(notification)))
	})

	t.Run("rejects request with id", func(t *testing.T) {
		request := `{"jsonrpc": "2.0", "id": 1, "method": "ping"}`
		require.False(t, jsonrpc.IsNotification([]byte(request)))
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		invalidJSON := `{"invalid": json`
		require.False(t, jsonrpc.IsNotification([]byte(invalidJSON)))
	})
}

func TestIsResponse(t *testing.T) {
	t.Run("identifies result payloads", func(t *testing.T) {
		response := `{"jsonrpc": "2.0", "result": {}, "id": 1}`
		require.True(t, jsonrpc.IsResponse([]byte(response)))
	})

	t.Run("identifies error payloads", func(t *testing.T) {
		response := `{"jsonrpc": "2.0", "error": {"code": -32601, "message": "nope"}, "id": 1}`
		require.True(t, jsonrpc.IsResponse([]byte(response)))
	})

	t.Run("rejects requests", func(t *testing.T) {
		request := `{"jsonrpc": "2.0", "id": 1, "method": "ping"}`
		require.False(t, jsonrpc.IsResponse([]byte(request)))
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		invalidJSON := `{"invalid": json`
		require.False(t, jsonrpc.IsResponse([]byte(invalidJSON)))
	})
}
