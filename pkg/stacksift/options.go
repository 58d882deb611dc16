package stacksift

import (
	"go.uber.org/zap"

	"github.com/crimson-sun/stacksift/internal/normalizer"
)

// Mode is the ingestion mode.
type Mode string

const (
	// ModeSplit treats each physical line as one candidate record — use
	// it for structured logs carrying one exception per line.
	ModeSplit Mode = "split"
	// ModeMultiline accumulates a header line and its continuation lines
	// into one candidate record — use it for plain-text dumps.
	ModeMultiline Mode = "multiline"
)

// GrammarDynamic probes all grammars and locks onto the first one that
// matches.
const GrammarDynamic = "dynamic"

type options struct {
	mode     Mode
	grammar  string
	maxBytes int
	maxLines int
	rules    []normalizer.Rule
	filters  []string
	trace    *zap.SugaredLogger
}

// Option configures an Extract call.
type Option func(*options)

// WithMode sets the ingestion mode. Default: ModeSplit.
// An unknown mode surfaces as an error from Extract.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithGrammar selects one named grammar, or GrammarDynamic to probe.
// Default: GrammarDynamic. An unknown name surfaces as an error.
func WithGrammar(name string) Option {
	return func(o *options) { o.grammar = name }
}

// WithMaxBytes caps the input size. Input beyond the cap is truncated at
// a line boundary and the result is flagged, not failed. Default: 4 MiB.
func WithMaxBytes(n int) Option {
	return func(o *options) { o.maxBytes = n }
}

// WithMaxLines caps the number of input lines. Default: 100000.
func WithMaxLines(n int) Option {
	return func(o *options) { o.maxLines = n }
}

// WithSubstitution adds a substring substitution applied during
// signature normalization, for domain-specific volatile tokens (entity
// ids in fixed-format messages and the like). The replacement must not
// contain the pattern; Extract rejects rules that would break
// normalization idempotence.
func WithSubstitution(pattern, replacement string) Option {
	return func(o *options) {
		o.rules = append(o.rules, normalizer.Rule{Pattern: pattern, Replacement: replacement})
	}
}

// WithFilter adds a boolean expression evaluated against each extracted
// record ({Grammar, Type, Message, FrameCount, FirstFile}); records for
// which any filter is false are dropped before grouping and counted in
// Result.Filtered.
func WithFilter(expression string) Option {
	return func(o *options) { o.filters = append(o.filters, expression) }
}

// WithTraceLogger enables debug-level tracing of grammar probing and
// locking decisions.
func WithTraceLogger(lg *zap.SugaredLogger) Option {
	return func(o *options) { o.trace = lg }
}

func defaultOptions() options {
	return options{
		mode:    ModeSplit,
		grammar: GrammarDynamic,
	}
}
