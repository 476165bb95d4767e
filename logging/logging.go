// Package logging defines the query-logging sink contract consumed by the
// executor layer. The core compiler never logs; only the orchestration around
// it reports statements, and always through a Sink so that callers can inject
// their own destination.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Sink receives the outcome of every executed statement. Implementations must
// be safe for concurrent use; the executor issues row and count queries in
// parallel.
type Sink interface {
	// LogQuery is called after every successful statement.
	LogQuery(query string, args []interface{}, elapsed time.Duration)
	// LogError is called before an execution error is returned to the caller.
	LogError(query string, err error, args []interface{})
}

// ConsoleSink writes colored one-line entries to a writer, stderr by default.
// It does not rotate or persist anything; file handling belongs to whoever
// owns the writer.
type ConsoleSink struct {
	mu       sync.Mutex
	out      io.Writer
	okColor  *color.Color
	errColor *color.Color
}

// NewConsoleSink creates a ConsoleSink writing to stderr.
func NewConsoleSink() *ConsoleSink {
	return NewConsoleSinkTo(os.Stderr)
}

// NewConsoleSinkTo creates a ConsoleSink writing to w.
func NewConsoleSinkTo(w io.Writer) *ConsoleSink {
	return &ConsoleSink{
		out:      w,
		okColor:  color.New(color.FgCyan),
		errColor: color.New(color.FgRed, color.Bold),
	}
}

// LogQuery implements Sink.
func (s *ConsoleSink) LogQuery(query string, args []interface{}, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s %s args=%v (%s)\n", s.okColor.Sprint("query"), query, args, elapsed)
}

// LogError implements Sink.
func (s *ConsoleSink) LogError(query string, err error, args []interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s %s args=%v: %v\n", s.errColor.Sprint("error"), query, args, err)
}

type nopSink struct{}

func (nopSink) LogQuery(string, []interface{}, time.Duration) {}
func (nopSink) LogError(string, error, []interface{})         {}

// Nop returns a sink that discards everything.
func Nop() Sink { return nopSink{} }

var (
	defaultMu   sync.Mutex
	defaultSink Sink
)

// Default returns the process-wide sink, lazily constructing a ConsoleSink on
// first use. It is only consulted when a caller does not inject a sink of its
// own.
func Default() Sink {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSink == nil {
		defaultSink = NewConsoleSink()
	}
	return defaultSink
}

// Replace swaps the process-wide sink, closing the previous one when it
// implements io.Closer. Passing nil restores the lazy console default.
func Replace(s Sink) {
	defaultMu.Lock()
	prev := defaultSink
	defaultSink = s
	defaultMu.Unlock()
	closeSink(prev)
}

// Shutdown tears the process-wide sink down. Subsequent Default calls
// construct a fresh console sink.
func Shutdown() {
	Replace(nil)
}

func closeSink(s Sink) {
	if c, ok := s.(io.Closer); ok {
		c.Close()
	}
}
