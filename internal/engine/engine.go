// Package engine orchestrates one extraction run:
// tokenize → select → extract → filter → normalize → aggregate → report.
//
// Run is a pure computation over the input string. It performs no I/O,
// holds no state across calls, and is safe to invoke concurrently.
package engine

import (
	"go.uber.org/zap"

	"github.com/crimson-sun/stacksift/internal/aggregator"
	"github.com/crimson-sun/stacksift/internal/model"
	"github.com/crimson-sun/stacksift/internal/normalizer"
	"github.com/crimson-sun/stacksift/internal/report"
	"github.com/crimson-sun/stacksift/internal/rules"
	"github.com/crimson-sun/stacksift/internal/selector"
	"github.com/crimson-sun/stacksift/internal/tokenizer"
)

// Options configures one run. The zero value means: split mode, dynamic
// grammar selection, default caps, no substitutions, no filters.
type Options struct {
	Mode     tokenizer.Mode
	Grammar  string // grammar id or selector.DynamicName
	MaxBytes int
	MaxLines int
	Rules    []normalizer.Rule
	Filters  []string
	Trace    *zap.SugaredLogger // debug probe tracing, may be nil
}

// Result is the full outcome of one run.
type Result struct {
	Records   []model.ExceptionRecord
	Grammar   string // locked or explicit grammar id, "" if none matched
	Truncated bool
	Filtered  int
	Report    *report.Report
}

// Run extracts, groups, and ranks exception occurrences in text.
// The only error conditions are malformed control inputs: an unknown
// grammar name, an unknown mode, a non-idempotent substitution rule, or
// a filter that fails to compile. Unmatched or empty input is a normal
// empty result.
func Run(text string, opts Options) (*Result, error) {
	sel, err := selector.New(opts.Grammar, opts.Trace)
	if err != nil {
		return nil, err
	}
	norm, err := normalizer.New(opts.Rules)
	if err != nil {
		return nil, err
	}
	filter, err := rules.Compile(opts.Filters)
	if err != nil {
		return nil, err
	}

	scan := tokenizer.Scan(text, opts.Mode, sel.Candidates(), tokenizer.Config{
		MaxBytes: opts.MaxBytes,
		MaxLines: opts.MaxLines,
	})

	selection := sel.Run(scan.Spans)
	kept, dropped := filter.Apply(selection.Records)
	groups := aggregator.Aggregate(kept, norm.Signature)

	return &Result{
		Records:   kept,
		Grammar:   string(selection.Grammar),
		Truncated: scan.Truncated,
		Filtered:  dropped,
		Report:    report.Build(groups, string(selection.Grammar), scan.Truncated, dropped),
	}, nil
}
