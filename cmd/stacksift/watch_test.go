package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crimson-sun/stacksift/internal/config"
	"github.com/crimson-sun/stacksift/internal/report"
)

type captureSink struct {
	reports chan *report.Report
}

func (s *captureSink) Write(_ context.Context, r *report.Report) error {
	select {
	case s.reports <- r:
	default:
	}
	return nil
}

func (s *captureSink) Close() error { return nil }

func TestWatchSlidingWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("ticks on a one-second interval")
	}

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(`Traceback (most recent call last):
  File "old.py", line 1, in stale
KeyError: evicted
Traceback (most recent call last):
  File "app.py", line 10, in handler
ValueError: bad input
`), 0o644))

	cfg := config.Load()
	cfg.Watch.IntervalSec = 1
	cfg.Watch.WindowLines = 3 // only the second traceback fits

	sink := &captureSink{reports: make(chan *report.Report, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, path, cfg, zap.NewNop().Sugar(), false, sink)
	}()

	select {
	case r := <-sink.reports:
		require.Len(t, r.Groups, 1)
		assert.Equal(t, "ValueError", r.Groups[0].Representative.Type)
		assert.Equal(t, 1, r.TotalRecords)
	case <-time.After(10 * time.Second):
		t.Fatal("no report before deadline")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatchMissingFile(t *testing.T) {
	cfg := config.Load()
	cfg.Watch.IntervalSec = 1

	err := runWatch(context.Background(), filepath.Join(t.TempDir(), "absent.log"),
		cfg, zap.NewNop().Sugar(), false, &captureSink{reports: make(chan *report.Report, 1)})
	require.Error(t, err)
}
