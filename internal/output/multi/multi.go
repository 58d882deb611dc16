package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/stacksift/internal/output"
	"github.com/crimson-sun/stacksift/internal/report"
)

// Sink fans a report out to several sinks. All sinks receive the report;
// errors are joined rather than short-circuiting.
type Sink struct {
	sinks []output.Sink
}

// New creates a fan-out sink.
func New(sinks ...output.Sink) *Sink {
	return &Sink{sinks: sinks}
}

func (s *Sink) Write(ctx context.Context, r *report.Report) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Write(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Sink) Close() error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
