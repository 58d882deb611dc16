package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crimson-sun/stacksift/internal/config"
	"github.com/crimson-sun/stacksift/internal/engine"
	"github.com/crimson-sun/stacksift/internal/logging"
	"github.com/crimson-sun/stacksift/internal/normalizer"
	"github.com/crimson-sun/stacksift/internal/output"
	filesink "github.com/crimson-sun/stacksift/internal/output/file"
	"github.com/crimson-sun/stacksift/internal/output/multi"
	"github.com/crimson-sun/stacksift/internal/output/stdout"
	"github.com/crimson-sun/stacksift/internal/output/webhook"
	"github.com/crimson-sun/stacksift/internal/tokenizer"
)

type rootFlags struct {
	configPath string
	grammar    string
	mode       string
	maxBytes   int
	maxLines   int
	subs       []string
	filters    []string
	format     string
	outFile    string
	webhookURL string
	pretty     bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "stacksift [file]",
		Short: "Extract and rank unhandled exceptions from application logs",
		Long: `stacksift scans raw application log text for unhandled-exception dumps
(Go panics, Python/Django tracebacks, .NET exceptions), collapses
near-duplicate occurrences, and reports the most likely root-cause
location. Reads from the given file, or stdin when none is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lg, err := setup(flags, cmd)
			if err != nil {
				return err
			}
			defer lg.Sync()

			text, err := readInput(args)
			if err != nil {
				return err
			}
			return runOnce(cmd.Context(), text, cfg, lg, flags.debug)
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	fs.StringVarP(&flags.grammar, "grammar", "g", "", "grammar id or \"dynamic\"")
	fs.StringVarP(&flags.mode, "mode", "m", "", "ingestion mode: split or multiline")
	fs.IntVar(&flags.maxBytes, "max-bytes", 0, "input byte cap (0 = default)")
	fs.IntVar(&flags.maxLines, "max-lines", 0, "input line cap (0 = default)")
	fs.StringArrayVar(&flags.subs, "sub", nil, "extra normalization rule, \"pattern=>replacement\" (repeatable)")
	fs.StringArrayVar(&flags.filters, "filter", nil, "record filter expression (repeatable)")
	fs.StringVarP(&flags.format, "format", "f", "", "output format: text or json")
	fs.StringVarP(&flags.outFile, "out", "o", "", "append report to file instead of stdout")
	fs.StringVar(&flags.webhookURL, "webhook-url", "", "POST report JSON to this ticketing endpoint")
	fs.BoolVar(&flags.pretty, "pretty", false, "indent JSON output")
	fs.BoolVar(&flags.debug, "debug", false, "verbose grammar selection tracing")

	cmd.AddCommand(newWatchCmd(flags))
	return cmd
}

// setup merges env, config file, and flags (highest precedence last) and
// initializes the diagnostic logger.
func setup(flags *rootFlags, cmd *cobra.Command) (config.Config, *zap.SugaredLogger, error) {
	cfg := config.Load()
	if flags.configPath != "" {
		if err := cfg.MergeFile(flags.configPath); err != nil {
			return cfg, nil, err
		}
	}
	if flags.grammar != "" {
		cfg.Grammar = flags.grammar
	}
	if flags.mode != "" {
		cfg.Mode = flags.mode
	}
	if flags.maxBytes > 0 {
		cfg.MaxBytes = flags.maxBytes
	}
	if flags.maxLines > 0 {
		cfg.MaxLines = flags.maxLines
	}
	if flags.format != "" {
		cfg.Output.Format = flags.format
	}
	if flags.outFile != "" {
		cfg.Output.File = flags.outFile
	}
	if flags.webhookURL != "" {
		cfg.Output.WebhookURL = flags.webhookURL
	}
	if cmd.Flags().Changed("pretty") {
		cfg.Output.Pretty = flags.pretty
	}
	if flags.debug {
		cfg.Logging.Level = "debug"
	}
	cfg.Filters = append(cfg.Filters, flags.filters...)

	for _, s := range flags.subs {
		rule, err := parseSub(s)
		if err != nil {
			return cfg, nil, err
		}
		cfg.Substitutions = append(cfg.Substitutions, rule)
	}

	return cfg, logging.New(cfg.Logging), nil
}

func runOnce(ctx context.Context, text string, cfg config.Config, lg *zap.SugaredLogger, debug bool) error {
	res, err := extract(text, cfg, lg, debug)
	if err != nil {
		return err
	}

	lg.Infow("extraction complete",
		"grammar", res.Grammar,
		"records", len(res.Records),
		"groups", len(res.Report.Groups),
		"truncated", res.Truncated,
		"filtered", res.Filtered,
	)

	sink, err := buildSink(cfg.Output)
	if err != nil {
		return err
	}
	defer sink.Close()
	return sink.Write(ctx, res.Report)
}

// extract runs the engine with settings translated from CLI config.
func extract(text string, cfg config.Config, lg *zap.SugaredLogger, debug bool) (*engine.Result, error) {
	mode, err := tokenizer.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	opts := engine.Options{
		Mode:     mode,
		Grammar:  cfg.Grammar,
		MaxBytes: cfg.MaxBytes,
		MaxLines: cfg.MaxLines,
		Rules:    cfg.Substitutions,
		Filters:  cfg.Filters,
	}
	if debug {
		opts.Trace = lg
	}
	return engine.Run(text, opts)
}

func buildSink(cfg config.OutputConfig) (output.Sink, error) {
	asJSON := cfg.Format == "json"

	var sinks []output.Sink
	if cfg.File != "" {
		fs, err := filesink.New(cfg.File, asJSON, cfg.Pretty)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fs)
	} else {
		sinks = append(sinks, stdout.New(asJSON, cfg.Pretty))
	}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, webhook.New(cfg.WebhookURL))
	}

	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return multi.New(sinks...), nil
}

func readInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseSub splits "pattern=>replacement" into a normalization rule.
func parseSub(s string) (normalizer.Rule, error) {
	pattern, replacement, ok := strings.Cut(s, "=>")
	if !ok {
		return normalizer.Rule{}, fmt.Errorf("bad substitution %q: want \"pattern=>replacement\"", s)
	}
	return normalizer.Rule{Pattern: pattern, Replacement: replacement}, nil
}
