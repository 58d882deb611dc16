package grammar

import (
	"regexp"
	"strings"

	"github.com/crimson-sun/stacksift/internal/model"
	"github.com/crimson-sun/stacksift/internal/timestamp"
)

var (
	// "System.InvalidOperationException: message", with or without the
	// "Unhandled exception. " prefix the .NET host writes.
	csExcRe = regexp.MustCompile(`^(?:Unhandled exception\. )?((?:[A-Za-z_]\w*\.)+[A-Za-z_]\w*Exception)(?::\s?(.*))?$`)
	// "   at Ns.Type.Method(String arg) in /src/Prog.cs:line 42", and the
	// file-less framework frames between user frames.
	csFrameRe    = regexp.MustCompile(`^[ \t]+at (.+?) in (.+):line (\d+)\s*$`)
	csAtRe       = regexp.MustCompile(`^[ \t]+at .+$`)
	csInnerRe    = regexp.MustCompile(`^[ \t]*---> .+$`)
	csEndInnerRe = regexp.MustCompile(`^[ \t]*--- End of .+---[ \t]*$`)
)

// csharp recognizes .NET unhandled-exception dumps: an
// "Unhandled exception." or "<Namespace>.<Type>Exception:" header,
// "   at ... in file:line N" frames, and ---> inner-exception chains.
var csharp = Grammar{
	ID: CSharp,
	Header: func(line string) bool {
		rest := timestamp.Strip(line)
		return rest == "Unhandled exception." || csExcRe.MatchString(rest)
	},
	Continuation: func(line string, span []string) bool {
		rest := timestamp.Strip(line)
		if csExcRe.MatchString(rest) {
			// Claimed only for the two-line host form, "Unhandled
			// exception." then the exception line. Any later exception
			// line opens the next dump.
			return len(span) == 1 && timestamp.Strip(span[0]) == "Unhandled exception."
		}
		return csAtRe.MatchString(rest) ||
			csInnerRe.MatchString(rest) ||
			csEndInnerRe.MatchString(rest)
	},
	Parse: parseCSharp,
}

func parseCSharp(span string) (model.ExceptionRecord, bool) {
	rec := model.ExceptionRecord{Raw: span, Grammar: string(CSharp)}
	headerSeen := false

	for _, line := range strings.Split(span, "\n") {
		ts, rest := timestamp.Split(line)
		rest = timestamp.Strip(rest)
		if !ts.IsZero() && rec.Timestamp.IsZero() {
			rec.Timestamp = ts
		}

		if rest == "Unhandled exception." {
			headerSeen = true
			continue
		}
		if m := csExcRe.FindStringSubmatch(rest); m != nil && rec.Type == "" {
			headerSeen = true
			rec.Type = m[1]
			rec.Message = m[2]
			continue
		}
		if m := csFrameRe.FindStringSubmatch(rest); m != nil {
			rec.Frames = append(rec.Frames, model.StackFrame{
				Function: m[1],
				File:     m[2],
				Line:     atoi(m[3]),
			})
		}
	}

	if !headerSeen {
		return model.ExceptionRecord{}, false
	}
	if rec.Type == "" {
		// "Unhandled exception." with a truncated tail.
		rec.Type = "UnhandledException"
	}
	return rec, true
}
