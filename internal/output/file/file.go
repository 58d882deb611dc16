package file

import (
	"context"
	"fmt"
	"os"

	"github.com/crimson-sun/stacksift/internal/output/stdout"
	"github.com/crimson-sun/stacksift/internal/report"
)

// Sink appends reports to a file. Watch mode appends one report per
// tick, so the file accumulates a history of windows.
type Sink struct {
	f     *os.File
	inner *stdout.Sink
}

// New opens (or creates) path for appending.
func New(path string, asJSON, pretty bool) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file output: %w", err)
	}
	return &Sink{f: f, inner: stdout.NewWriter(f, asJSON, pretty)}, nil
}

func (s *Sink) Write(ctx context.Context, r *report.Report) error {
	return s.inner.Write(ctx, r)
}

func (s *Sink) Close() error {
	return s.f.Close()
}
