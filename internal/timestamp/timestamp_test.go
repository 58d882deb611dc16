package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitISO(t *testing.T) {
	ts, rest := Split("2025-01-01T00:00:00Z Traceback (most recent call last):")
	require.False(t, ts.IsZero())
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), ts.UTC())
	assert.Equal(t, "Traceback (most recent call last):", rest)
}

func TestSplitKeepsIndentation(t *testing.T) {
	// Only the single separator space is consumed; the line's own
	// indentation must survive for frame predicates.
	_, rest := Split(`2025-01-01T00:00:00Z   File "app.py", line 10, in handler`)
	assert.Equal(t, `  File "app.py", line 10, in handler`, rest)
}

func TestSplitShapes(t *testing.T) {
	tests := []struct {
		name string
		line string
		rest string
	}{
		{"fractional", "2025-01-01T12:30:00.123456Z panic: boom", "panic: boom"},
		{"offset", "2025-01-01T12:30:00+02:00 panic: boom", "panic: boom"},
		{"space separated comma millis", "2025-01-01 12:30:00,123 error", "error"},
		{"bracketed", "[2025-01-01T12:30:00Z] error", "error"},
		{"syslog", "Jan  2 15:04:05 kernel: oops", "kernel: oops"},
		{"no prefix", "plain line", "plain line"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rest := Split(tt.line)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestSplitSyslogYear(t *testing.T) {
	ts, rest := Split("Mar 14 09:26:53 myhost app[123]: boom")
	require.False(t, ts.IsZero())
	assert.Equal(t, time.Now().Year(), ts.Year())
	assert.Equal(t, "myhost app[123]: boom", rest)
}

func TestStripStacked(t *testing.T) {
	// A forwarder can stamp an already-stamped line.
	got := Strip("2025-01-02T00:00:00Z 2025-01-01T00:00:00Z ValueError: bad value")
	assert.Equal(t, "ValueError: bad value", got)
}

func TestStripIdempotent(t *testing.T) {
	line := "2025-01-01T00:00:00Z ValueError: bad value"
	once := Strip(line)
	assert.Equal(t, once, Strip(once))
}
