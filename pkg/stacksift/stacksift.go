package stacksift

import (
	"github.com/crimson-sun/stacksift/internal/engine"
	"github.com/crimson-sun/stacksift/internal/model"
	"github.com/crimson-sun/stacksift/internal/tokenizer"
)

// Extract detects unhandled-exception dumps in raw log text, groups
// near-duplicate occurrences, and ranks the groups by frequency.
//
// Extract is a pure function: it performs no I/O, keeps no state between
// calls, and is safe to call concurrently. It returns an error only for
// malformed control inputs — an unknown grammar or mode name, a
// substitution rule that would break normalization idempotence, or a
// filter expression that fails to compile. Input in which no grammar
// finds anything yields an empty (successful) result.
func Extract(text string, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	mode, err := tokenizer.ParseMode(string(o.mode))
	if err != nil {
		return nil, err
	}

	res, err := engine.Run(text, engine.Options{
		Mode:     mode,
		Grammar:  o.grammar,
		MaxBytes: o.maxBytes,
		MaxLines: o.maxLines,
		Rules:    o.rules,
		Filters:  o.filters,
		Trace:    o.trace,
	})
	if err != nil {
		return nil, err
	}

	out := &Result{
		Grammar:   res.Grammar,
		Truncated: res.Truncated,
		Filtered:  res.Filtered,
		Report:    &Report{inner: res.Report},
	}
	out.Records = make([]Record, len(res.Records))
	for i, rec := range res.Records {
		out.Records[i] = recordFrom(rec)
	}
	return out, nil
}

func recordFrom(rec model.ExceptionRecord) Record {
	r := Record{
		Raw:       rec.Raw,
		Grammar:   rec.Grammar,
		Type:      rec.Type,
		Message:   rec.Message,
		Timestamp: rec.Timestamp,
	}
	r.Frames = framesFrom(rec.Frames)
	return r
}

func framesFrom(frames []model.StackFrame) []Frame {
	if len(frames) == 0 {
		return nil
	}
	out := make([]Frame, len(frames))
	for i, f := range frames {
		out[i] = Frame{File: f.File, Line: f.Line, Function: f.Function}
	}
	return out
}
