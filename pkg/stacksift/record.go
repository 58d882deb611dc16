package stacksift

import (
	"time"

	"github.com/crimson-sun/stacksift/internal/report"
)

// Frame is a single stack-trace location.
type Frame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function,omitempty"`
}

// Record is one extracted exception occurrence.
// This is the stable public type — internal representations may evolve
// independently without breaking consumers.
type Record struct {
	Raw       string    `json:"raw"`
	Grammar   string    `json:"grammar"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Frames    []Frame   `json:"frames"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Group is a set of occurrences that collapsed to the same signature.
type Group struct {
	Count          int
	Representative Record
	Anchor         []Frame
}

// Result is the outcome of one Extract call.
type Result struct {
	Records   []Record // successfully extracted records, in stream order
	Grammar   string   // explicit or locked grammar id, "" if none matched
	Truncated bool     // input exceeded the size caps; counts cover the prefix
	Filtered  int      // records dropped by filter expressions
	Report    *Report
}

// Report is the ranked summary over the grouped records.
type Report struct {
	inner *report.Report
}

// ID is a unique identifier for this invocation, for correlating a
// downstream ticket with the report that produced it.
func (r *Report) ID() string { return r.inner.ID }

// Render returns the human-readable summary. An empty report renders as
// "no stack traces found".
func (r *Report) Render() string { return r.inner.Render() }

// Anchor returns the most-common group's first frame(s) as a
// "file:line[, file:line...]" string for direct use as a remediation
// hint. Empty when no group carries a usable frame.
func (r *Report) Anchor() string { return r.inner.Anchor() }

// Groups returns all groups, ordered by descending count with ties in
// first-seen order.
func (r *Report) Groups() []Group {
	out := make([]Group, len(r.inner.Groups))
	for i, g := range r.inner.Groups {
		out[i] = Group{
			Count:          g.Count,
			Representative: recordFrom(g.Representative),
			Anchor:         framesFrom(g.Anchor),
		}
	}
	return out
}

// MostCommon returns the highest-count group. ok is false when the
// report is empty.
func (r *Report) MostCommon() (g Group, ok bool) {
	mc := r.inner.MostCommon()
	if mc == nil {
		return Group{}, false
	}
	return Group{
		Count:          mc.Count,
		Representative: recordFrom(mc.Representative),
		Anchor:         framesFrom(mc.Anchor),
	}, true
}
