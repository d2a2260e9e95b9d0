// Package responder implements a line-oriented MCP handshake stub: one
// JSON-RPC request per input line, at most one response line per request.
// It exists so a client harness can exercise its initialize/ping exchange
// against a server that never fails, whatever it is fed.
package responder

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/codeintel/mcp-test-server/internal/jsonrpc"
)

// Identity reported in every initialize response.
const (
	ProtocolVersion = "2024-11-05"
	ServerName      = "test-server"
	ServerVersion   = "1.0.0"
)

// Lines longer than this end the scan loop.
const maxLineBytes = 1024 * 1024

// ServerInfo names the responding server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capabilities advertises the three standard capability groups, all empty.
type Capabilities struct {
	Tools     struct{} `json:"tools"`
	Resources struct{} `json:"resources"`
	Prompts   struct{} `json:"prompts"`
}

// InitializeResult is the canned initialize payload. Typed rather than a
// map so the serialized key order is stable across runs.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// Serve reads newline-delimited JSON-RPC requests from r until end of
// stream. Each non-empty line is parsed and answered independently; no
// state carries across lines. Responses are written to w one line at a
// time, each in a single Write call issued before the next line is read,
// so a consumer of w observes a response as soon as it is produced.
//
// Serve returns nil once r is exhausted. It returns an error only when w
// rejects a write or the scanner itself fails; malformed input never
// produces an error.
func Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		resp, ok := respond(line)
		if !ok {
			continue
		}

		out, err := json.Marshal(resp)
		if err != nil {
			continue
		}

		if _, err := w.Write(append(out, '\n')); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// respond maps one input line to its response, if any. This is the only
// place input is allowed to fail: parse errors, unknown methods, and
// missing method fields all collapse to ok=false with no trace.
func respond(line []byte) (jsonrpc.Response, bool) {
	var req jsonrpc.Request
	if err := json.Unmarshal(line, &req); err != nil {
		return jsonrpc.Response{}, false
	}

	switch req.Method {
	case "initialize":
		result, err := json.Marshal(InitializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo: ServerInfo{
				Name:    ServerName,
				Version: ServerVersion,
			},
		})
		if err != nil {
			return jsonrpc.Response{}, false
		}

		return jsonrpc.Response{
			JSONRPC: jsonrpc.Version,
			Result:  result,
			ID:      req.ID,
		}, true

	case "initialized":
		// One-way notification.
		return jsonrpc.Response{}, false

	case "ping":
		return jsonrpc.Response{
			JSONRPC: jsonrpc.Version,
			Result:  json.RawMessage(`{}`),
			ID:      req.ID,
		}, true
	}

	return jsonrpc.Response{}, false
}
