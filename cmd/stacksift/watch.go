package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crimson-sun/stacksift/internal/config"
	"github.com/crimson-sun/stacksift/internal/output"
)

func newWatchCmd(flags *rootFlags) *cobra.Command {
	var (
		interval time.Duration
		window   int
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Follow a log file and report on a recurring interval",
		Long: `watch tails the given log file, keeps a sliding window of recent
lines, and re-runs extraction over the window every interval, emitting a
fresh report to the configured sink each time. The engine stays pure;
watch owns all file I/O and windowing.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lg, err := setup(flags, cmd)
			if err != nil {
				return err
			}
			defer lg.Sync()

			if interval > 0 {
				cfg.Watch.IntervalSec = int(interval / time.Second)
			}
			if window > 0 {
				cfg.Watch.WindowLines = window
			}

			// Validate control inputs before tailing anything.
			if _, err := extract("", cfg, lg, flags.debug); err != nil {
				return err
			}

			sink, err := buildSink(cfg.Output)
			if err != nil {
				return err
			}
			defer sink.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runWatch(ctx, args[0], cfg, lg, flags.debug, sink)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "time between reports (default 30s)")
	cmd.Flags().IntVar(&window, "window", 0, "sliding window size in lines (default 5000)")
	return cmd
}

func runWatch(ctx context.Context, path string, cfg config.Config, lg *zap.SugaredLogger, debug bool, sink output.Sink) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true, // survive rotation
		MustExist: true,
		Poll:      true, // fallback if inotify fails
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return err
	}
	defer t.Cleanup()

	lg.Infow("watching", "file", path,
		"interval_sec", cfg.Watch.IntervalSec, "window_lines", cfg.Watch.WindowLines)

	ticker := time.NewTicker(time.Duration(cfg.Watch.IntervalSec) * time.Second)
	defer ticker.Stop()

	var lines []string
	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				lg.Warnw("read error", "file", path, "error", line.Err)
				continue
			}
			lines = append(lines, line.Text)
			if len(lines) > cfg.Watch.WindowLines {
				lines = lines[len(lines)-cfg.Watch.WindowLines:]
			}
		case <-ticker.C:
			if len(lines) == 0 {
				continue
			}
			res, err := extract(strings.Join(lines, "\n"), cfg, lg, debug)
			if err != nil {
				// Control inputs were validated up front; this is unreachable
				// short of a config reload, but don't loop on it silently.
				return err
			}
			lg.Infow("window processed",
				"lines", len(lines), "records", len(res.Records), "groups", len(res.Report.Groups))
			if err := sink.Write(ctx, res.Report); err != nil {
				lg.Warnw("sink write failed", "error", err)
			}
		}
	}
}
