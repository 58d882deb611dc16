package model

import (
	"fmt"
	"strings"
	"time"
)

// StackFrame is a single location in an extracted stack trace.
type StackFrame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function,omitempty"`
}

// String renders the frame as "file:line", the form downstream
// ticketing consumes directly.
func (f StackFrame) String() string {
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}

// ExceptionRecord is one extracted exception occurrence.
// A record with an empty Frames list is still a valid record: the header
// matched but the frames were malformed or truncated, so the anchor it
// contributes is lower-confidence, not absent.
type ExceptionRecord struct {
	Raw       string       `json:"raw"`             // original span text
	Grammar   string       `json:"grammar"`         // id of the grammar that matched
	Type      string       `json:"type"`            // exception type, e.g. "ValueError"
	Message   string       `json:"message"`         // exception message
	Frames    []StackFrame `json:"frames"`          // ordered, outermost first
	Timestamp time.Time    `json:"timestamp,omitzero"` // recovered from the raw text when possible
}

// FirstFrame returns the record's first stack frame, or false when the
// frame list is empty.
func (r ExceptionRecord) FirstFrame() (StackFrame, bool) {
	if len(r.Frames) == 0 {
		return StackFrame{}, false
	}
	return r.Frames[0], true
}

// Summary is a one-line "Type: message" rendering used in report output.
func (r ExceptionRecord) Summary() string {
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		return r.Type
	}
	return r.Type + ": " + msg
}
