// Package report renders the ranked outcome of one extraction run and
// exposes the machine-readable anchor the downstream ticketing step
// consumes.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/crimson-sun/stacksift/internal/model"
)

// snippetLen bounds the representative snippet in rendered output.
const snippetLen = 120

// Report is the ranked result of one engine invocation.
type Report struct {
	// ID correlates a filed ticket with the invocation that produced it.
	// It carries no grouping semantics.
	ID string `json:"id"`
	// Groups is ordered by descending count; ties keep first-seen order.
	Groups []model.Group `json:"groups"`
	// TotalRecords is the number of extracted records; it equals the sum
	// of group counts.
	TotalRecords int `json:"total_records"`
	// Truncated is set when the input exceeded the configured caps and
	// counts reflect only the processed prefix.
	Truncated bool `json:"truncated,omitempty"`
	// Filtered is the number of records dropped by caller filters before
	// grouping.
	Filtered int `json:"filtered,omitempty"`
	// Grammar is the explicit or locked grammar id, empty when nothing
	// matched.
	Grammar string `json:"grammar,omitempty"`
}

// Build ranks groups by descending count. The incoming slice is in
// first-seen order; the stable sort preserves that order among ties, so
// the most-common selection is deterministic across runs.
func Build(groups []model.Group, grammar string, truncated bool, filtered int) *Report {
	ranked := make([]model.Group, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	total := 0
	for _, g := range ranked {
		total += g.Count
	}

	return &Report{
		ID:           uuid.NewString(),
		Groups:       ranked,
		TotalRecords: total,
		Truncated:    truncated,
		Filtered:     filtered,
		Grammar:      grammar,
	}
}

// MostCommon returns the highest-count group, or nil when the report is
// empty. Ties resolve to the earliest-seen group.
func (r *Report) MostCommon() *model.Group {
	if len(r.Groups) == 0 {
		return nil
	}
	return &r.Groups[0]
}

// Anchor returns the most-common group's anchor frames as a
// "file:line[, file:line...]" string, or "" when no group carries one.
func (r *Report) Anchor() string {
	mc := r.MostCommon()
	if mc == nil {
		return ""
	}
	return mc.AnchorString()
}

// Render produces the human-readable summary.
func (r *Report) Render() string {
	var b strings.Builder

	if len(r.Groups) == 0 {
		b.WriteString("no stack traces found\n")
		if r.Truncated {
			b.WriteString("note: input was truncated at the configured size cap\n")
		}
		return b.String()
	}

	fmt.Fprintf(&b, "%d stack trace group(s), %d occurrence(s)\n", len(r.Groups), r.TotalRecords)
	for i, g := range r.Groups {
		fmt.Fprintf(&b, "%2d. x%-4d %s\n", i+1, g.Count, snippet(g.Representative.Summary()))
		if anchor := g.AnchorString(); anchor != "" {
			fmt.Fprintf(&b, "          anchor: %s\n", anchor)
		}
	}
	if r.Filtered > 0 {
		fmt.Fprintf(&b, "%d record(s) excluded by filter\n", r.Filtered)
	}
	if r.Truncated {
		b.WriteString("note: input was truncated at the configured size cap; counts reflect the processed prefix\n")
	}
	return b.String()
}

func snippet(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= snippetLen {
		return s
	}
	return s[:snippetLen] + "..."
}
