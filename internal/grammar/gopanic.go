package grammar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/crimson-sun/stacksift/internal/model"
	"github.com/crimson-sun/stacksift/internal/timestamp"
)

var (
	goHeaderRe    = regexp.MustCompile(`^(panic|fatal error): (.*)$`)
	goGoroutineRe = regexp.MustCompile(`^goroutine \d+(?: gp=0x[0-9a-fA-F]+)?(?: m=\d+(?: mp=0x[0-9a-fA-F]+)?)? \[[^\]]*\]:$`)
	goFrameRe     = regexp.MustCompile(`^[ \t]+(\S+\.go):(\d+)(?: \+0x[0-9a-fA-F]+)?$`)
	goFuncRe      = regexp.MustCompile(`^(\S+)\(.*\)$`)
	goCreatedRe   = regexp.MustCompile(`^created by (\S+)(?: in goroutine \d+)?$`)
	goSignalRe    = regexp.MustCompile(`^\[signal [^\]]+\]$`)
	// Re-panic echo under a "panic: ... [recovered]" header; the runtime
	// tab-indents it, a fresh dump's header is flush left.
	goRepanicRe = regexp.MustCompile(`^\t+panic: `)
)

// goPanic recognizes the Go runtime's plain-text panic and fatal-error
// dumps: a "panic:"/"fatal error:" header, "goroutine N [state]:" markers,
// alternating function-call lines and tab-indented "file.go:N +0x..." frames.
var goPanic = Grammar{
	ID: GoPanic,
	Header: func(line string) bool {
		return goHeaderRe.MatchString(timestamp.Strip(line))
	},
	Continuation: func(line string, _ []string) bool {
		rest := timestamp.Strip(line)
		// The runtime writes a blank line between the panic value and
		// the goroutine dump.
		return strings.TrimSpace(rest) == "" ||
			goGoroutineRe.MatchString(rest) ||
			goFrameRe.MatchString(rest) ||
			goFuncRe.MatchString(rest) ||
			goCreatedRe.MatchString(rest) ||
			goSignalRe.MatchString(rest) ||
			rest == "runtime stack:" ||
			goRepanicRe.MatchString(rest)
	},
	Parse: parseGoPanic,
}

func parseGoPanic(span string) (model.ExceptionRecord, bool) {
	lines := strings.Split(span, "\n")

	rec := model.ExceptionRecord{Raw: span, Grammar: string(GoPanic)}
	headerSeen := false
	pendingFunc := ""

	for _, line := range lines {
		ts, rest := timestamp.Split(line)
		rest = timestamp.Strip(rest)
		if !ts.IsZero() && rec.Timestamp.IsZero() {
			rec.Timestamp = ts
		}

		if !headerSeen {
			m := goHeaderRe.FindStringSubmatch(rest)
			if m == nil {
				continue
			}
			headerSeen = true
			rec.Type = m[1]
			rec.Message = m[2]
			continue
		}

		if m := goCreatedRe.FindStringSubmatch(rest); m != nil {
			pendingFunc = m[1]
			continue
		}
		// Function lines: "main.run(0xc000010000, 0x2)" in runtime dumps,
		// bare "main.run" in zap-style stacktrace fields.
		if m := goFuncRe.FindStringSubmatch(rest); m != nil {
			pendingFunc = m[1]
			continue
		}
		if !strings.ContainsAny(rest, " \t") && strings.Contains(rest, ".") &&
			!goGoroutineRe.MatchString(rest) {
			pendingFunc = rest
			continue
		}
		if m := goFrameRe.FindStringSubmatch(rest); m != nil {
			rec.Frames = append(rec.Frames, model.StackFrame{
				File:     m[1],
				Line:     atoi(m[2]),
				Function: pendingFunc,
			})
			pendingFunc = ""
		}
	}

	if !headerSeen {
		return model.ExceptionRecord{}, false
	}
	return rec, true
}

// atoi converts digits already vetted by a regexp capture group.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
