// Package aggregator collapses exception records into groups keyed by
// normalized signature.
package aggregator

import (
	"github.com/crimson-sun/stacksift/internal/model"
)

// Aggregate groups records by the signature function, preserving
// first-occurrence order. For each group the first-seen record becomes
// the representative and the first usable stack frame seen across all
// members becomes the remediation anchor. The reduction is stable: the
// same input always produces the same groups in the same order.
//
// Every record lands in exactly one group, so the sum of group counts
// equals len(records). Records with empty frame lists still count; they
// just cannot contribute an anchor.
func Aggregate(records []model.ExceptionRecord, signature func(model.ExceptionRecord) string) []model.Group {
	if len(records) == 0 {
		return nil
	}

	// Ordered map: preserve first-occurrence order.
	var order []string
	groups := make(map[string]*model.Group)

	for _, rec := range records {
		sig := signature(rec)

		g, exists := groups[sig]
		if !exists {
			g = &model.Group{
				Signature:      sig,
				Representative: rec,
			}
			groups[sig] = g
			order = append(order, sig)
		}
		g.Count++
		if len(g.Anchor) == 0 {
			if f, ok := rec.FirstFrame(); ok {
				g.Anchor = []model.StackFrame{f}
			}
		}
	}

	result := make([]model.Group, 0, len(order))
	for _, sig := range order {
		result = append(result, *groups[sig])
	}
	return result
}
