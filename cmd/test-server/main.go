// test-server answers the minimal MCP handshake over stdio. It reads
// newline-delimited JSON-RPC from stdin, replies to initialize and ping,
// swallows everything else, and exits when stdin closes. No flags, no
// environment, no configuration: calling harnesses must be able to rely
// on it never breaking.
package main

import (
	"os"

	"github.com/codeintel/mcp-test-server/internal/responder"
)

func main() {
	// Scan errors end the loop quietly; the stub never visibly fails.
	_ = responder.Serve(os.Stdin, os.Stdout)
}
