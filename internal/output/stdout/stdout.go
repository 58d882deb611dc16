package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/stacksift/internal/report"
)

// Sink writes reports to stdout, rendered as text or encoded as JSON.
type Sink struct {
	w      io.Writer
	asJSON bool
	pretty bool
}

// New creates a stdout Sink.
func New(asJSON, pretty bool) *Sink {
	return &Sink{w: os.Stdout, asJSON: asJSON, pretty: pretty}
}

// NewWriter creates a Sink targeting w. Used by the file sink and tests.
func NewWriter(w io.Writer, asJSON, pretty bool) *Sink {
	return &Sink{w: w, asJSON: asJSON, pretty: pretty}
}

func (s *Sink) Write(_ context.Context, r *report.Report) error {
	if !s.asJSON {
		if _, err := io.WriteString(s.w, r.Render()); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
		return nil
	}
	enc := json.NewEncoder(s.w)
	if s.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	return nil
}
