// Package report renders sweep results. Every sink implements
// runner.Reporter; a session writes to exactly one of them.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/notargets/ktune/runner"
)

// Format names accepted by New
const (
	FormatTable = "table"
	FormatLog   = "log"
	FormatJSONL = "jsonl"
)

// New returns the sink for format writing to w
func New(format string, w io.Writer, top int) (runner.Reporter, error) {
	switch format {
	case "", FormatTable:
		t := NewTable(w)
		if top > 0 {
			t.Top = top
		}
		return t, nil
	case FormatLog:
		return NewLogFile(w), nil
	case FormatJSONL:
		return NewJSONLines(w), nil
	default:
		return nil, fmt.Errorf("unknown report format %q, want table, log or jsonl", format)
	}
}

// Open creates the file at path and returns a sink writing to it. An empty
// path selects the interactive table on stdout unless format asks for
// something else.
func Open(path, format string, top int) (runner.Reporter, io.Closer, error) {
	if path == "" {
		rep, err := New(format, os.Stdout, top)
		return rep, nopCloser{}, err
	}
	if format == "" {
		format = FormatLog
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create report file: %w", err)
	}
	rep, err := New(format, f, top)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return rep, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// center pads s with spaces on both sides to width w
func center(s string, w int) string {
	if len(s) >= w {
		return s
	}
	left := (w - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-len(s)-left)
}
