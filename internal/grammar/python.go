package grammar

import (
	"regexp"
	"strings"

	"github.com/crimson-sun/stacksift/internal/model"
	"github.com/crimson-sun/stacksift/internal/timestamp"
)

const pyHeader = "Traceback (most recent call last):"

var (
	pyFrameRe = regexp.MustCompile(`^[ \t]+File "([^"]+)", line (\d+)(?:, in (.+))?$`)
	// Final line of a traceback: "ValueError: bad input", "socket.timeout",
	// "django.db.utils.OperationalError: could not connect".
	pyExcRe = regexp.MustCompile(`^([A-Za-z_][\w.]*(?:Error|Exception|Warning|Interrupt|Exit|Iteration|NotFound|Denied|Timeout|timeout))(?::\s?(.*))?$`)
	// Exception classes outside the conventional suffix set, recognized
	// only directly under a frame line: "django.http.Http404: not found",
	// "app.errors.InvalidCursor: cursor expired". The final segment must
	// be CamelCase so plain "INFO:"/"WARNING:" log lines stay out.
	pyExcCustomRe = regexp.MustCompile(`^((?:[A-Za-z_]\w*\.)*[A-Z]\w*[a-z]\w*):\s?(.*)$`)
	// Chained-traceback separators keep a multi-part block together.
	pyChainRe = regexp.MustCompile(`^(?:During handling of the above exception, another exception occurred:|The above exception was the direct cause of the following exception:)$`)

	djangoISERe = regexp.MustCompile(`^Internal Server Error: (\S+)$`)
)

// python recognizes CPython interpreter tracebacks: the literal header,
// "  File ..." frames interleaved with indented source echoes, and a
// final "Type: message" line.
var python = Grammar{
	ID: Python,
	Header: func(line string) bool {
		return timestamp.Strip(line) == pyHeader
	},
	Continuation: pyContinuation,
	Parse: func(span string) (model.ExceptionRecord, bool) {
		return parsePython(span, Python)
	},
}

// django is the python grammar widened with Django's request-log shape:
// the "Internal Server Error: /path" response line may open the block,
// and the request path joins the message.
var django = Grammar{
	ID: Django,
	Header: func(line string) bool {
		rest := timestamp.Strip(line)
		return rest == pyHeader || djangoISERe.MatchString(rest)
	},
	Continuation: func(line string, span []string) bool {
		if timestamp.Strip(line) == pyHeader {
			// The response line and its traceback arrive as two writes;
			// once the span holds a traceback, a second header starts
			// the next record.
			return !spanHasLine(span, pyHeader)
		}
		return pyContinuation(line, span)
	},
	Parse: func(span string) (model.ExceptionRecord, bool) {
		return parsePython(span, Django)
	},
}

func pyContinuation(line string, span []string) bool {
	rest := timestamp.Strip(line)
	// Blank lines separate the parts of a chained traceback.
	if strings.TrimSpace(rest) == "" {
		return true
	}
	if strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "\t") {
		return true
	}
	if pyExcRe.MatchString(rest) || pyChainRe.MatchString(rest) {
		return true
	}
	// A custom exception line closes the traceback only when it sits
	// directly under a frame; anywhere else a "Name: text" line is just
	// the next log line.
	return pyExcCustomRe.MatchString(rest) && lastSpanLineIndented(span)
}

func spanHasLine(span []string, want string) bool {
	for _, line := range span {
		if timestamp.Strip(line) == want {
			return true
		}
	}
	return false
}

func lastSpanLineIndented(span []string) bool {
	for i := len(span) - 1; i >= 0; i-- {
		rest := timestamp.Strip(span[i])
		if strings.TrimSpace(rest) == "" {
			continue
		}
		return strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "\t")
	}
	return false
}

func parsePython(span string, id ID) (model.ExceptionRecord, bool) {
	rec := model.ExceptionRecord{Raw: span, Grammar: string(id)}
	headerSeen := false
	underFrame := false
	requestPath := ""

	for _, line := range strings.Split(span, "\n") {
		ts, rest := timestamp.Split(line)
		rest = timestamp.Strip(rest)
		if !ts.IsZero() && rec.Timestamp.IsZero() {
			rec.Timestamp = ts
		}

		if m := djangoISERe.FindStringSubmatch(rest); m != nil && id == Django {
			requestPath = m[1]
			continue
		}
		if rest == pyHeader {
			headerSeen = true
			underFrame = false
			continue
		}
		if !headerSeen {
			continue
		}

		if m := pyFrameRe.FindStringSubmatch(rest); m != nil {
			rec.Frames = append(rec.Frames, model.StackFrame{
				File:     m[1],
				Line:     atoi(m[2]),
				Function: m[3],
			})
			underFrame = true
			continue
		}
		if m := pyExcRe.FindStringSubmatch(rest); m != nil {
			// Chained tracebacks overwrite: the last exception is the one
			// that actually escaped.
			rec.Type = m[1]
			rec.Message = m[2]
			underFrame = false
			continue
		}
		if m := pyExcCustomRe.FindStringSubmatch(rest); m != nil && underFrame {
			rec.Type = m[1]
			rec.Message = m[2]
			underFrame = false
			continue
		}
		if strings.TrimSpace(rest) != "" {
			underFrame = strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "\t")
		}
	}

	if !headerSeen {
		return model.ExceptionRecord{}, false
	}
	if rec.Type == "" {
		// Header matched but the tail was cut off. Still a record, with
		// whatever frames survived.
		rec.Type = "Traceback"
	}
	if requestPath != "" {
		if rec.Message != "" {
			rec.Message += " "
		}
		rec.Message += "(" + requestPath + ")"
	}
	return rec, true
}
