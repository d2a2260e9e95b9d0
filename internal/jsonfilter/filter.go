// Package jsonfilter strips non-JSON chatter from a child process stream.
// Servers under test sometimes print banners or diagnostics on stdout;
// only lines that look like JSON objects are passed through.
package jsonfilter

import (
	"bytes"
	"io"
	"log"
)

// Reader filters non-JSON lines from an underlying stream.
type Reader struct {
	source  io.Reader
	buffer  bytes.Buffer
	pending bytes.Buffer
}

// NewReader wraps r with filtering behavior.
func NewReader(r io.Reader) *Reader {
	return &Reader{source: r}
}

// Read implements io.Reader by returning only newline-delimited JSON lines.
func (r *Reader) Read(p []byte) (int, error) {
	if r.pending.Len() > 0 {
		return r.pending.Read(p)
	}

	tmp := make([]byte, len(p))
	n, err := r.source.Read(tmp)
	if n > 0 {
		r.buffer.Write(tmp[:n])
		r.drainCompleteLines()
	}

	if r.pending.Len() > 0 {
		return r.pending.Read(p)
	}

	if err == io.EOF {
		r.flushTail()
		if r.pending.Len() > 0 {
			return r.pending.Read(p)
		}
		return 0, io.EOF
	}

	if err != nil {
		return 0, err
	}

	return 0, nil
}

func (r *Reader) drainCompleteLines() {
	for {
		line, err := r.buffer.ReadBytes('\n')
		if err == io.EOF {
			// Incomplete line, keep it buffered until more data arrives.
			r.buffer.Write(line)
			return
		}

		r.keepIfJSON(line)
	}
}

// flushTail handles a final line with no trailing newline at end of stream.
func (r *Reader) flushTail() {
	if r.buffer.Len() == 0 {
		return
	}

	tail := make([]byte, r.buffer.Len())
	copy(tail, r.buffer.Bytes())
	r.buffer.Reset()
	r.keepIfJSON(tail)
}

func (r *Reader) keepIfJSON(line []byte) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return
	}

	if trimmed[0] == '{' {
		r.pending.Write(trimmed)
		r.pending.WriteByte('\n')
		return
	}

	log.Printf("[test-harness] ignoring non-JSON output: %s", trimmed)
}
