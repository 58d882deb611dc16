// Package timestamp recognizes the leading timestamp prefixes that log
// collectors prepend to application output, in the common ISO-8601 and
// syslog shapes.
package timestamp

import (
	"regexp"
	"strings"
	"time"
)

var (
	// 2025-01-01T00:00:00Z, 2025-01-01 00:00:00,123 +02:00, optionally
	// bracketed. Exactly one separator space is consumed: anything beyond
	// it is the line's own indentation, which frame predicates rely on.
	isoRe = regexp.MustCompile(`^\[?(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?(?:Z|[+-]\d{2}:?\d{2})?)\]?[ \t]?`)
	// Jan  2 15:04:05
	syslogRe = regexp.MustCompile(`^([A-Z][a-z]{2} {1,2}\d{1,2} \d{2}:\d{2}:\d{2})[ \t]`)
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Split removes one leading timestamp prefix from line and parses it.
// Returns the zero time and the line unchanged when no prefix is present.
func Split(line string) (time.Time, string) {
	if m := isoRe.FindStringSubmatch(line); m != nil {
		raw := strings.Replace(m[1], ",", ".", 1)
		rest := line[len(m[0]):]
		for _, layout := range isoLayouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts, rest
			}
		}
		return time.Time{}, rest
	}
	if m := syslogRe.FindStringSubmatch(line); m != nil {
		rest := line[len(m[0]):]
		// Syslog timestamps carry no year; resolve against the current one.
		if ts, err := time.Parse(time.Stamp, m[1]); err == nil {
			return ts.AddDate(time.Now().Year(), 0, 0), rest
		}
		return time.Time{}, rest
	}
	return time.Time{}, line
}

// Strip removes leading timestamp prefixes from line until none remain,
// so stripping an already-stripped line is a no-op.
func Strip(line string) string {
	for {
		_, rest := Split(line)
		if rest == line {
			return rest
		}
		line = rest
	}
}
