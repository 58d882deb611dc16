package output

import (
	"context"

	"github.com/crimson-sun/stacksift/internal/report"
)

// Sink defines the interface for report destinations.
type Sink interface {
	Write(ctx context.Context, r *report.Report) error
	Close() error
}
