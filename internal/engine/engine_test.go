package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/stacksift/internal/grammar"
	"github.com/crimson-sun/stacksift/internal/tokenizer"
)

const twoDatedTracebacks = `2025-01-01T00:00:00Z Traceback (most recent call last):
2025-01-01T00:00:00Z   File "app.py", line 10, in handler
2025-01-01T00:00:00Z ValueError: bad input
2025-01-02T00:00:00Z Traceback (most recent call last):
2025-01-02T00:00:00Z   File "app.py", line 10, in handler
2025-01-02T00:00:00Z ValueError: bad input`

func TestRunEndToEnd(t *testing.T) {
	res, err := Run(twoDatedTracebacks, Options{
		Mode:    tokenizer.ModeMultiline,
		Grammar: "dynamic",
	})
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "python", res.Grammar)

	require.Len(t, res.Report.Groups, 1)
	assert.Equal(t, 2, res.Report.Groups[0].Count)
	assert.Equal(t, "app.py:10", res.Report.Anchor())

	rep := res.Report.Groups[0].Representative
	assert.Equal(t, "ValueError", rep.Type)
	assert.Equal(t, "bad input", rep.Message)
}

func TestRunCountsConsecutiveCSharpDumps(t *testing.T) {
	input := `System.InvalidOperationException: Sequence contains no elements
   at Billing.Invoices.Generate(Int32 id) in /src/Billing/Invoices.cs:line 58
System.NullReferenceException: Object reference not set to an instance of an object.
   at Billing.Program.Main(String[] args) in /src/Billing/Program.cs:line 12`

	res, err := Run(input, Options{
		Mode:    tokenizer.ModeMultiline,
		Grammar: "csharp",
	})
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "System.InvalidOperationException", res.Records[0].Type)
	assert.Equal(t, "System.NullReferenceException", res.Records[1].Type)
	require.Len(t, res.Records[0].Frames, 1)
	require.Len(t, res.Records[1].Frames, 1)
	assert.Len(t, res.Report.Groups, 2)
}

func TestRunCountsConsecutiveDjangoTracebacks(t *testing.T) {
	one := `Traceback (most recent call last):
  File "app.py", line 10, in handler
KeyError: 'order'`

	res, err := Run(one+"\n"+one, Options{
		Mode:    tokenizer.ModeMultiline,
		Grammar: "django",
	})
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	for _, rec := range res.Records {
		assert.Equal(t, "KeyError", rec.Type)
		assert.Len(t, rec.Frames, 1)
	}
	require.Len(t, res.Report.Groups, 1)
	assert.Equal(t, 2, res.Report.Groups[0].Count)
}

func TestRunUnknownGrammar(t *testing.T) {
	_, err := Run("whatever", Options{Grammar: "cobol"})
	require.ErrorIs(t, err, grammar.ErrUnknown)
}

func TestRunBadFilter(t *testing.T) {
	_, err := Run("whatever", Options{Filters: []string{"Type =="}})
	require.Error(t, err)
}

func TestRunEmptyInput(t *testing.T) {
	res, err := Run("", Options{Mode: tokenizer.ModeMultiline})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Contains(t, res.Report.Render(), "no stack traces found")
}

func TestRunFilterConservation(t *testing.T) {
	res, err := Run(twoDatedTracebacks, Options{
		Mode:    tokenizer.ModeMultiline,
		Filters: []string{`Type != "ValueError"`},
	})
	require.NoError(t, err)

	assert.Empty(t, res.Records)
	assert.Equal(t, 2, res.Filtered)
	assert.Equal(t, 0, res.Report.TotalRecords)
}

func TestRunTruncationMetadata(t *testing.T) {
	res, err := Run(twoDatedTracebacks, Options{
		Mode:     tokenizer.ModeMultiline,
		MaxLines: 3, // only the first traceback survives
	})
	require.NoError(t, err)

	assert.True(t, res.Truncated)
	assert.True(t, res.Report.Truncated)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Report.TotalRecords)
}
