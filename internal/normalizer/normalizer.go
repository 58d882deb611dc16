// Package normalizer derives stable grouping signatures from exception
// records by stripping the volatile substrings — timestamps, request and
// trace ids, pointer-like tokens — that make two occurrences of the same
// logical exception differ textually.
package normalizer

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/stacksift/internal/model"
	"github.com/crimson-sun/stacksift/internal/timestamp"
)

// HexPlaceholder replaces runs of six or more hex characters. It contains
// no hex run of its own, which is what keeps Normalize idempotent.
const HexPlaceholder = "#HEX#"

var hexRunRe = regexp.MustCompile(`[0-9a-fA-F]{6,}`)

// Rule is one caller-supplied substring substitution for domain-specific
// volatile tokens the built-in steps cannot know about.
type Rule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Normalizer applies the fixed normalization steps plus caller rules.
type Normalizer struct {
	rules []Rule
}

// New validates the rules and builds a Normalizer. A rule whose
// replacement reintroduces any rule's pattern, or a hex run the collapse
// step would rewrite, would make Normalize churn on every application,
// so both are rejected up front.
func New(rules []Rule) (*Normalizer, error) {
	for _, r := range rules {
		if r.Pattern == "" {
			return nil, fmt.Errorf("normalizer: rule with empty pattern")
		}
		if hexRunRe.MatchString(r.Replacement) {
			return nil, fmt.Errorf("normalizer: rule %q is not idempotent: replacement contains a hex run", r.Pattern)
		}
		for _, other := range rules {
			if strings.Contains(r.Replacement, other.Pattern) {
				return nil, fmt.Errorf("normalizer: rule %q is not idempotent: replacement contains pattern %q", r.Pattern, other.Pattern)
			}
		}
	}
	return &Normalizer{rules: rules}, nil
}

// maxPasses bounds the fixpoint loop in Normalize. A substitution can
// expose a new hex run at its seams (a short replacement fusing with hex
// remnants around it), which only the next pass collapses; validated
// rule sets settle within a pass or two.
const maxPasses = 8

// Normalize strips volatile substrings from s. Idempotent:
// Normalize(Normalize(s)) == Normalize(s).
//
// Each pass applies, in fixed order: leading timestamp strip, hex run
// collapse, caller rules. Passes repeat until the string stops changing.
func (n *Normalizer) Normalize(s string) string {
	s = norm.NFC.String(s)
	for i := 0; i < maxPasses; i++ {
		next := n.pass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func (n *Normalizer) pass(s string) string {
	s = timestamp.Strip(s)
	s = hexRunRe.ReplaceAllString(s, HexPlaceholder)
	for _, r := range n.rules {
		s = strings.ReplaceAll(s, r.Pattern, r.Replacement)
	}
	return s
}

// Signature derives the grouping key for a record: the matched grammar,
// the exception type, the normalized message, and the frame locations.
// Signatures are grouping keys only and are never shown to users.
func (n *Normalizer) Signature(rec model.ExceptionRecord) string {
	var b strings.Builder
	b.WriteString(rec.Grammar)
	b.WriteByte('|')
	b.WriteString(rec.Type)
	b.WriteByte('|')
	b.WriteString(n.Normalize(rec.Message))
	for _, f := range rec.Frames {
		b.WriteByte('|')
		b.WriteString(f.String())
	}
	return b.String()
}
