// Package stdio runs a line-oriented JSON-RPC server as a child process
// and exposes it as a harness transport: requests go to the child's stdin,
// stdout lines come back as messages, stderr lines surface as errors.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/codeintel/mcp-test-server/internal/jsonfilter"
	"github.com/codeintel/mcp-test-server/internal/jsonrpc"
)

// Params configures the stdio client transport.
type Params struct {
	Command string
	Args    []string
	Dir     string
	Env     []string
}

// Client launches and talks to one child process. It implements the
// harness Transport interface.
type Client struct {
	params     Params
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stdout     io.ReadCloser
	stderr     io.ReadCloser
	mu         sync.Mutex
	onMessage  func(jsonrpc.Message)
	onError    func(error)
	onClose    func()
	closedOnce sync.Once
}

// NewClient creates a new stdio client transport.
func NewClient(params Params) *Client {
	return &Client{params: params}
}

// OnMessage registers a callback for inbound messages.
func (c *Client) OnMessage(fn func(jsonrpc.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = fn
}

// OnError registers a callback for transport errors.
func (c *Client) OnError(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

// OnClose registers a callback invoked when the process exits.
func (c *Client) OnClose(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = fn
}

// Start launches the underlying process and begins reading stdout.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.cmd != nil {
		c.mu.Unlock()
		return errors.New("already started")
	}

	cmd := exec.CommandContext(ctx, c.params.Command, c.params.Args...)
	if c.params.Dir != "" {
		cmd.Dir = c.params.Dir
	}
	if len(c.params.Env) > 0 {
		cmd.Env = append(os.Environ(), c.params.Env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		c.mu.Unlock()
		return err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		c.mu.Unlock()
		return err
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.cmd = cmd
	c.stdin = stdin
	c.stdout = stdout
	c.stderr = stderr
	c.mu.Unlock()

	if err := cmd.Start(); err != nil {
		return err
	}

	go c.readStdout()
	go c.readStderr()
	go func() {
		_ = cmd.Wait()
		c.close()
	}()

	return nil
}

func (c *Client) readStdout() {
	reader := bufio.NewReader(jsonfilter.NewReader(c.stdout))
	for {
		line, err := reader.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			c.mu.Lock()
			onMessage := c.onMessage
			c.mu.Unlock()
			if onMessage != nil {
				onMessage(jsonrpc.NewMessage(trimmed))
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.reportError(err)
			}
			return
		}
	}
}

func (c *Client) readStderr() {
	scanner := bufio.NewScanner(c.stderr)
	for scanner.Scan() {
		c.reportError(errors.New(scanner.Text()))
	}
}

func (c *Client) reportError(err error) {
	c.mu.Lock()
	onError := c.onError
	c.mu.Unlock()
	if onError != nil {
		onError(err)
	}
}

// Send writes the JSON message and a trailing newline to the child's stdin.
func (c *Client) Send(ctx context.Context, msg jsonrpc.Message) error {
	c.mu.Lock()
	stdin := c.stdin
	c.mu.Unlock()

	if stdin == nil {
		return errors.New("stdin not initialized")
	}

	data := msg.Bytes()
	data = append(data, '\n')

	_, err := stdin.Write(data)
	return err
}

// Close terminates the process.
func (c *Client) Close() error {
	c.close()
	return nil
}

func (c *Client) close() {
	c.closedOnce.Do(func() {
		c.mu.Lock()
		onClose := c.onClose
		stdin := c.stdin
		cmd := c.cmd
		c.stdin = nil
		c.cmd = nil
		c.mu.Unlock()

		if stdin != nil {
			_ = stdin.Close()
		}
		if cmd != nil && cmd.Process != nil {
			_ = cmd.Process.Kill()
		}

		if onClose != nil {
			onClose()
		}
	})
}
