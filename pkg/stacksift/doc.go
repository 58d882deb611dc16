// Package stacksift extracts unhandled-exception dumps from raw
// application log text, collapses near-duplicate occurrences, and ranks
// the resulting groups so the most likely root-cause location surfaces
// first.
//
// Quick start:
//
//	res, err := stacksift.Extract(logText,
//	    stacksift.WithMode(stacksift.ModeMultiline),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(res.Report.Render())
//	fmt.Println("anchor:", res.Report.Anchor()) // e.g. "app.py:10"
//
// Six grammars are built in: Go runtime panics (plain and JSON-wrapped),
// CPython tracebacks, Django request errors (plain and JSON-wrapped),
// and .NET unhandled-exception dumps. By default Extract probes them in
// a fixed order and locks onto the first that matches; pass
// WithGrammar to pin one.
//
// Extract is pure and synchronous — no I/O, no retained state — so
// concurrent calls need no coordination. Size caps are enforced by
// deterministic truncation, reported via Result.Truncated rather than
// an error.
package stacksift
