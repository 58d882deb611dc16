// Package rules compiles and evaluates caller-supplied filter
// expressions over extracted exception records, so operational noise
// (expected shutdown exceptions, known-benign types) can be excluded
// before grouping.
package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/crimson-sun/stacksift/internal/model"
)

// Env is the environment a filter expression evaluates against.
type Env struct {
	Grammar    string
	Type       string
	Message    string
	FrameCount int
	FirstFile  string
}

// Filter is a compiled set of boolean expressions. A record is kept only
// when every expression evaluates true.
type Filter struct {
	progs []*vm.Program
	srcs  []string
}

// Compile compiles the expressions once per invocation. A non-boolean or
// syntactically invalid expression is a control-input error and fails
// immediately.
func Compile(exprs []string) (*Filter, error) {
	f := &Filter{}
	for _, src := range exprs {
		prog, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("rules: compile %q: %w", src, err)
		}
		f.progs = append(f.progs, prog)
		f.srcs = append(f.srcs, src)
	}
	return f, nil
}

// Empty reports whether the filter has no expressions.
func (f *Filter) Empty() bool {
	return f == nil || len(f.progs) == 0
}

// Keep evaluates all expressions against rec. Evaluation errors drop the
// record rather than failing the run; the expressions were type-checked
// at compile time, so this is limited to pathological runtime values.
func (f *Filter) Keep(rec model.ExceptionRecord) bool {
	if f.Empty() {
		return true
	}
	env := Env{
		Grammar:    rec.Grammar,
		Type:       rec.Type,
		Message:    rec.Message,
		FrameCount: len(rec.Frames),
	}
	if frame, ok := rec.FirstFrame(); ok {
		env.FirstFile = frame.File
	}
	for _, prog := range f.progs {
		out, err := expr.Run(prog, env)
		if err != nil {
			return false
		}
		if keep, ok := out.(bool); !ok || !keep {
			return false
		}
	}
	return true
}

// Apply partitions records into kept and a dropped count.
func (f *Filter) Apply(records []model.ExceptionRecord) (kept []model.ExceptionRecord, dropped int) {
	if f.Empty() {
		return records, 0
	}
	for _, rec := range records {
		if f.Keep(rec) {
			kept = append(kept, rec)
		} else {
			dropped++
		}
	}
	return kept, dropped
}
