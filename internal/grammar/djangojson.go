package grammar

import (
	"strings"

	"github.com/crimson-sun/stacksift/internal/model"
)

// djangoJSON recognizes a Django traceback wrapped in a structured log
// record: one JSON object per line whose exc_info/traceback/message field
// carries the full traceback text with embedded newlines.
var djangoJSON = Grammar{
	ID: DjangoJSON,
	Header: func(line string) bool {
		obj, ok := decodeObject(line)
		if !ok {
			return false
		}
		return strings.Contains(stringField(obj, stackFields), pyHeader) ||
			strings.Contains(stringField(obj, messageFields), pyHeader)
	},
	Continuation: func(string, []string) bool { return false },
	Parse:        parseDjangoJSON,
}

func parseDjangoJSON(span string) (model.ExceptionRecord, bool) {
	obj, ok := decodeObject(span)
	if !ok {
		return model.ExceptionRecord{}, false
	}

	text := stringField(obj, stackFields)
	if !strings.Contains(text, pyHeader) {
		text = stringField(obj, messageFields)
	}
	if !strings.Contains(text, pyHeader) {
		return model.ExceptionRecord{}, false
	}

	inner, ok := parsePython(text, Django)
	if !ok {
		return model.ExceptionRecord{}, false
	}

	rec := model.ExceptionRecord{
		Raw:       span,
		Grammar:   string(DjangoJSON),
		Type:      inner.Type,
		Message:   inner.Message,
		Frames:    inner.Frames,
		Timestamp: timeField(obj),
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = inner.Timestamp
	}
	return rec, true
}
