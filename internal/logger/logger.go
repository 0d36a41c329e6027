// Package logger collects diagnostics produced while transforming or
// rendering a chunk. It is deliberately small: unlike the teacher's
// logger (which streams to a terminal across an entire build), this
// engine is called once per module or chunk and just needs to hand its
// caller a flat list of messages when the call returns.
package logger

import "fmt"

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
)

func (k MsgKind) String() string {
	if k == Error {
		return "error"
	}
	return "warning"
}

// Loc is a 0-based byte offset from the start of the source text.
type Loc struct {
	Start int32
}

type Range struct {
	Loc Loc
	Len int32
}

type Msg struct {
	Kind MsgKind
	Text string
	Loc  Loc
}

func (m Msg) String() string {
	return fmt.Sprintf("%s: %s (at byte %d)", m.Kind, m.Text, m.Loc.Start)
}

// Log accumulates messages produced by a single Transform/RenderChunk
// call. It is not safe for concurrent use by design (spec.md §5: the
// engine assumes the host serializes calls into one Optimizer instance).
type Log struct {
	msgs      []Msg
	hasErrors bool
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) AddError(loc Loc, text string) {
	l.hasErrors = true
	l.msgs = append(l.msgs, Msg{Kind: Error, Text: text, Loc: loc})
}

func (l *Log) AddWarning(loc Loc, text string) {
	l.msgs = append(l.msgs, Msg{Kind: Warning, Text: text, Loc: loc})
}

func (l *Log) HasErrors() bool {
	return l.hasErrors
}

func (l *Log) Msgs() []Msg {
	return l.msgs
}

func (l *Log) Warnings() []Msg {
	out := make([]Msg, 0, len(l.msgs))
	for _, m := range l.msgs {
		if m.Kind == Warning {
			out = append(out, m)
		}
	}
	return out
}
