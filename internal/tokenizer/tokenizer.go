// Package tokenizer splits raw log text into candidate record spans.
//
// Two ingestion modes: split, where every physical line is its own
// candidate span, and multiline, where consecutive lines accumulate into
// one span according to grammar header/continuation predicates.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/crimson-sun/stacksift/internal/grammar"
)

// Mode is the ingestion mode.
type Mode int

const (
	// ModeSplit treats each physical line as one candidate span.
	ModeSplit Mode = iota
	// ModeMultiline accumulates a header line and its continuation lines
	// into one candidate span.
	ModeMultiline
)

// ErrUnknownMode is returned for an unrecognized mode name. Like an
// unknown grammar, this is a caller mistake and fails fast.
var ErrUnknownMode = errors.New("unknown ingestion mode")

// ParseMode resolves a mode by name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "split", "":
		return ModeSplit, nil
	case "multiline":
		return ModeMultiline, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string {
	if m == ModeMultiline {
		return "multiline"
	}
	return "split"
}

// Config bounds the input. Zero values mean the defaults below.
type Config struct {
	MaxBytes int
	MaxLines int
}

const (
	// DefaultMaxBytes caps input at 4 MiB, comfortably above one
	// collector window of application logs.
	DefaultMaxBytes = 4 << 20
	DefaultMaxLines = 100_000
)

// Span is one candidate record span.
type Span struct {
	Text  string
	Index int // ordinal position in the stream, 0-based
}

// Result carries the spans plus truncation metadata. Truncation is not
// an error: counts downstream simply reflect the processed prefix.
type Result struct {
	Spans     []Span
	Truncated bool
}

// Scan splits text into candidate spans. In multiline mode the candidate
// grammars' predicates decide where spans begin and end: a span opens at
// a line matching some grammar's header, extends while lines match that
// grammar's continuation, and closes at the first line matching neither
// continuation nor another header. A trailing partial span at end of
// stream is still emitted.
func Scan(text string, mode Mode, grams []grammar.Grammar, cfg Config) Result {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MaxLines <= 0 {
		cfg.MaxLines = DefaultMaxLines
	}

	var res Result
	if len(text) > cfg.MaxBytes {
		// Cut at the cap, then back to the previous line boundary so the
		// same input always truncates at the same place.
		cut := cfg.MaxBytes
		if i := strings.LastIndexByte(text[:cut], '\n'); i >= 0 {
			cut = i
		}
		text = text[:cut]
		res.Truncated = true
	}
	if text == "" {
		return res
	}

	lines := strings.Split(text, "\n")
	if len(lines) > cfg.MaxLines {
		lines = lines[:cfg.MaxLines]
		res.Truncated = true
	}

	if mode == ModeSplit {
		for _, line := range lines {
			res.Spans = append(res.Spans, Span{Text: line, Index: len(res.Spans)})
		}
		return res
	}

	var (
		cur     []string
		curGram *grammar.Grammar
	)
	emit := func() {
		if curGram == nil {
			return
		}
		res.Spans = append(res.Spans, Span{
			Text:  strings.Join(cur, "\n"),
			Index: len(res.Spans),
		})
		cur = nil
		curGram = nil
	}
	open := func(line string) {
		for i := range grams {
			if grams[i].Header(line) {
				curGram = &grams[i]
				cur = []string{line}
				return
			}
		}
	}

	for _, line := range lines {
		if curGram != nil {
			if curGram.Continuation(line, cur) {
				cur = append(cur, line)
				continue
			}
			emit()
		}
		open(line)
	}
	emit()
	return res
}
