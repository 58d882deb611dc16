// Package grammar holds the fixed registry of exception grammars. Each
// grammar recognizes one language ecosystem's unhandled-exception log
// format, in plain-text or structured (one JSON object per record) form.
//
// Grammars are total: Parse either returns a record or reports no match,
// it never fails. A span whose header matched but whose frames are
// malformed still yields a record, with an empty frame list.
package grammar

import (
	"errors"
	"fmt"

	"github.com/crimson-sun/stacksift/internal/model"
)

// ID names a registered grammar.
type ID string

const (
	GoPanic     ID = "gopanic"
	GoPanicJSON ID = "gopanic-json"
	Python      ID = "python"
	Django      ID = "django"
	DjangoJSON  ID = "django-json"
	CSharp      ID = "csharp"
)

// ErrUnknown is returned when a caller names a grammar that is not
// registered. This is a control-input mistake, not a data problem.
var ErrUnknown = errors.New("unknown grammar")

// Grammar recognizes one exception format.
//
// Header reports whether a line opens an exception span. Continuation
// reports whether a line belongs to the span accumulated so far; it
// receives the span's lines so that a line which could also open a new
// record — a second traceback header, a second exception line — is
// claimed only when the span is still waiting for it. Both tolerate a
// leading collector timestamp on the line. Parse extracts a record from
// a complete span.
type Grammar struct {
	ID           ID
	Header       func(line string) bool
	Continuation func(line string, span []string) bool
	Parse        func(span string) (model.ExceptionRecord, bool)
}

// all is the registry in probe priority order. Dynamic selection tries
// grammars in exactly this order.
var all = []Grammar{
	goPanic,
	goPanicJSON,
	python,
	django,
	djangoJSON,
	csharp,
}

// All returns the registered grammars in probe priority order.
// The returned slice must not be mutated.
func All() []Grammar {
	return all
}

// Lookup resolves a grammar by name.
func Lookup(name string) (Grammar, error) {
	for _, g := range all {
		if g.ID == ID(name) {
			return g, nil
		}
	}
	return Grammar{}, fmt.Errorf("%w: %q", ErrUnknown, name)
}
