package grammar

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/crimson-sun/stacksift/internal/model"
	"github.com/crimson-sun/stacksift/internal/timestamp"
)

// Field names probed, in order, when locating the interesting parts of a
// structured log record. Loggers disagree on naming; these cover the
// zap/logrus/structlog/python-json-logger conventions seen in practice.
var (
	messageFields = []string{"msg", "message", "error", "event"}
	stackFields   = []string{"stacktrace", "stack", "traceback", "exc_info", "exception"}
	timeFields    = []string{"ts", "time", "timestamp", "asctime", "@timestamp"}
)

// decodeObject unmarshals a single-line JSON object, tolerating a leading
// collector timestamp before the brace.
func decodeObject(line string) (map[string]any, bool) {
	rest := timestamp.Strip(strings.TrimSpace(line))
	if !strings.HasPrefix(rest, "{") {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(rest), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func stringField(obj map[string]any, names []string) string {
	for _, name := range names {
		if v, ok := obj[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func timeField(obj map[string]any) time.Time {
	for _, name := range timeFields {
		switch v := obj[name].(type) {
		case string:
			if ts, rest := timestamp.Split(v); rest == "" || !ts.IsZero() {
				return ts
			}
		case float64:
			sec := int64(v)
			nsec := int64((v - float64(sec)) * 1e9)
			return time.Unix(sec, nsec).UTC()
		}
	}
	return time.Time{}
}

// goPanicJSON recognizes a Go panic captured as one JSON object per
// record: a message field carrying the panic marker and a stack field
// carrying the newline-separated runtime dump.
var goPanicJSON = Grammar{
	ID: GoPanicJSON,
	Header: func(line string) bool {
		obj, ok := decodeObject(line)
		if !ok {
			return false
		}
		msg := stringField(obj, messageFields)
		return strings.Contains(msg, "panic:") || strings.Contains(msg, "fatal error:")
	},
	// Structured records are one line each; nothing continues them.
	Continuation: func(string, []string) bool { return false },
	Parse:        parseGoPanicJSON,
}

func parseGoPanicJSON(span string) (model.ExceptionRecord, bool) {
	obj, ok := decodeObject(span)
	if !ok {
		return model.ExceptionRecord{}, false
	}
	msg := stringField(obj, messageFields)
	idx := strings.Index(msg, "panic:")
	marker, typ := "panic:", "panic"
	if idx < 0 {
		idx = strings.Index(msg, "fatal error:")
		marker, typ = "fatal error:", "fatal error"
	}
	if idx < 0 {
		return model.ExceptionRecord{}, false
	}

	rec := model.ExceptionRecord{
		Raw:       span,
		Grammar:   string(GoPanicJSON),
		Type:      typ,
		Message:   strings.TrimSpace(msg[idx+len(marker):]),
		Timestamp: timeField(obj),
	}

	// The stack field holds the same text the runtime writes to stderr;
	// reuse the plain-text frame scan.
	if stack := stringField(obj, stackFields); stack != "" {
		if inner, ok := parseGoPanic("panic: \n" + stack); ok {
			rec.Frames = inner.Frames
		}
	}
	return rec, true
}
