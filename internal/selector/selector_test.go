package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/stacksift/internal/grammar"
	"github.com/crimson-sun/stacksift/internal/tokenizer"
)

const pySpan = `Traceback (most recent call last):
  File "app.py", line 10, in handler
    raise ValueError("bad value")
ValueError: bad value`

const goSpan = `panic: runtime error: invalid memory address or nil pointer dereference

goroutine 1 [running]:
main.main()
	/srv/app/main.go:11 +0x20
`

func spans(texts ...string) []tokenizer.Span {
	out := make([]tokenizer.Span, len(texts))
	for i, t := range texts {
		out[i] = tokenizer.Span{Text: t, Index: i}
	}
	return out
}

func TestNewUnknownGrammar(t *testing.T) {
	_, err := New("cobol", nil)
	require.ErrorIs(t, err, grammar.ErrUnknown)
}

func TestExplicitSelection(t *testing.T) {
	s, err := New("python", nil)
	require.NoError(t, err)

	sel := s.Run(spans(pySpan, goSpan, pySpan))
	assert.Equal(t, grammar.Python, sel.Grammar)
	// The go panic span is a normal non-match under the python grammar.
	require.Len(t, sel.Records, 2)
	assert.Equal(t, "ValueError", sel.Records[0].Type)
}

func TestExplicitCandidates(t *testing.T) {
	s, err := New("csharp", nil)
	require.NoError(t, err)
	require.Len(t, s.Candidates(), 1)
	assert.Equal(t, grammar.CSharp, s.Candidates()[0].ID)

	dyn, err := New(DynamicName, nil)
	require.NoError(t, err)
	assert.Len(t, dyn.Candidates(), len(grammar.All()))
}

func TestDynamicLocksOnFirstSuccess(t *testing.T) {
	s, err := New(DynamicName, nil)
	require.NoError(t, err)

	sel := s.Run(spans("INFO noise", pySpan, goSpan, pySpan))
	assert.Equal(t, grammar.Python, sel.Grammar)
	// Locked to python: the later go panic is not re-probed.
	require.Len(t, sel.Records, 2)
	for _, rec := range sel.Records {
		assert.Equal(t, "python", rec.Grammar)
	}
}

func TestDynamicNeverReprobesAfterLock(t *testing.T) {
	s, err := New(DynamicName, nil)
	require.NoError(t, err)

	// Go panic first: locks gopanic, so every following python span is
	// a non-match for the remainder of the stream.
	sel := s.Run(spans(goSpan, pySpan, pySpan, pySpan))
	assert.Equal(t, grammar.GoPanic, sel.Grammar)
	assert.Len(t, sel.Records, 1)
}

func TestDynamicNoMatchIsEmptyNotError(t *testing.T) {
	s, err := New(DynamicName, nil)
	require.NoError(t, err)

	sel := s.Run(spans("INFO one", "INFO two"))
	assert.Empty(t, sel.Records)
	assert.Empty(t, string(sel.Grammar))
}

func TestDynamicMatchesExplicitOnUniformStream(t *testing.T) {
	dyn, err := New(DynamicName, nil)
	require.NoError(t, err)
	exp, err := New("python", nil)
	require.NoError(t, err)

	in := spans(pySpan, pySpan)
	assert.Equal(t, exp.Run(in).Records, dyn.Run(in).Records)
}
