// Package selector chooses which grammar extracts records from a stream
// of candidate spans.
//
// In dynamic mode the selector probes every registered grammar, in
// registry priority order, against spans from the start of the stream.
// The first grammar to yield a record wins, and from that point on only
// the locked grammar is applied — later spans are never re-probed, even
// if the locked grammar stops matching. The lock is returned as part of
// the result so it stays inspectable.
package selector

import (
	"go.uber.org/zap"

	"github.com/crimson-sun/stacksift/internal/grammar"
	"github.com/crimson-sun/stacksift/internal/model"
	"github.com/crimson-sun/stacksift/internal/tokenizer"
)

// DynamicName selects dynamic probing instead of a named grammar.
const DynamicName = "dynamic"

// Selection is the outcome of applying a selector to a span stream.
type Selection struct {
	// Grammar is the explicit or locked grammar id. Empty in dynamic
	// mode when no span matched anything.
	Grammar grammar.ID
	// Records holds the successfully extracted records in span order.
	Records []model.ExceptionRecord
}

// Selector applies one grammar, or probes for one.
type Selector struct {
	explicit *grammar.Grammar // nil in dynamic mode
	trace    *zap.SugaredLogger
}

// New builds a selector for the given grammar name. DynamicName enables
// probing; any other value must name a registered grammar. trace may be
// nil; when set, probe decisions are logged at debug level.
func New(name string, trace *zap.SugaredLogger) (*Selector, error) {
	s := &Selector{trace: trace}
	if name == DynamicName || name == "" {
		return s, nil
	}
	g, err := grammar.Lookup(name)
	if err != nil {
		return nil, err
	}
	s.explicit = &g
	return s, nil
}

// Candidates returns the grammars whose predicates the tokenizer should
// honor: the explicit grammar alone, or the full registry when probing.
func (s *Selector) Candidates() []grammar.Grammar {
	if s.explicit != nil {
		return []grammar.Grammar{*s.explicit}
	}
	return grammar.All()
}

// Run extracts records from spans. An empty record set is a normal
// outcome, not an error.
func (s *Selector) Run(spans []tokenizer.Span) Selection {
	if s.explicit != nil {
		return s.runExplicit(spans)
	}
	return s.runDynamic(spans)
}

func (s *Selector) runExplicit(spans []tokenizer.Span) Selection {
	sel := Selection{Grammar: s.explicit.ID}
	for _, sp := range spans {
		if rec, ok := s.explicit.Parse(sp.Text); ok {
			sel.Records = append(sel.Records, rec)
		}
	}
	return sel
}

func (s *Selector) runDynamic(spans []tokenizer.Span) Selection {
	var sel Selection
	var locked *grammar.Grammar

	for _, sp := range spans {
		if locked != nil {
			if rec, ok := locked.Parse(sp.Text); ok {
				sel.Records = append(sel.Records, rec)
			}
			continue
		}
		gs := grammar.All()
		for i := range gs {
			rec, ok := gs[i].Parse(sp.Text)
			if !ok {
				if s.trace != nil {
					s.trace.Debugw("probe miss", "grammar", gs[i].ID, "span", sp.Index)
				}
				continue
			}
			locked = &gs[i]
			sel.Grammar = gs[i].ID
			sel.Records = append(sel.Records, rec)
			if s.trace != nil {
				s.trace.Debugw("grammar locked", "grammar", gs[i].ID, "span", sp.Index)
			}
			break
		}
	}
	return sel
}
