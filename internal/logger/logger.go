// Package logger collects diagnostic messages produced while resolving and
// indexing files. It intentionally does not own a terminal renderer or a
// minimum-severity filter; that belongs to the ambient logging stack a host
// process wires in (see cmd/jsresolve, which bridges these messages into
// zap). This package only needs to capture messages with enough structure
// that a caller can filter, count, or format them later.
package logger

import "sync"

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Info
	Debug
)

func (k MsgKind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "debug"
	}
}

// Msg is one diagnostic. Path is the file the message concerns, if any; it's
// kept separate from Text so that structured sinks (zap fields, JSON logs)
// don't have to scrape it back out of a formatted string.
type Msg struct {
	Kind MsgKind
	Text string
	Path string
}

// Log accumulates messages from a single logical operation (one
// find_resource call, one package parse). It is safe for concurrent use.
type Log struct {
	mu   sync.Mutex
	msgs []Msg
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) add(kind MsgKind, path string, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, Msg{Kind: kind, Text: text, Path: path})
}

func (l *Log) AddError(path string, text string)   { l.add(Error, path, text) }
func (l *Log) AddWarning(path string, text string) { l.add(Warning, path, text) }
func (l *Log) AddInfo(path string, text string)    { l.add(Info, path, text) }
func (l *Log) AddDebug(path string, text string)   { l.add(Debug, path, text) }

// Msgs returns a snapshot of the messages recorded so far.
func (l *Log) Msgs() []Msg {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Msg, len(l.msgs))
	copy(out, l.msgs)
	return out
}

func (l *Log) HasErrors() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.msgs {
		if m.Kind == Error {
			return true
		}
	}
	return false
}
