package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kostich/kraftver"
	"github.com/kostich/kraftver/internal/config"
)

type inspectFlagValues struct {
	configPath  string
	format      string
	timeout     time.Duration
	keepWorkDir bool
	strict      bool
}

var inspectFlags inspectFlagValues

func resetInspectFlags() {
	inspectFlags = inspectFlagValues{format: formatText}
	for _, name := range []string{"config", "format", "timeout", "keep-workdir", "strict"} {
		if f := inspectCmd.Flags().Lookup(name); f != nil {
			f.Changed = false
		}
	}
}

// newExtractor builds the extraction facility from the configuration.
var newExtractor = func(cfg config.Config) kraftver.Extractor {
	return &kraftver.CommandExtractor{Command: cfg.Extractor.Command, Args: cfg.Extractor.Args}
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <map>...",
	Short: "Decode one or more map files",
	Long: `Decode one or more map files and print their metadata.

Maps are decoded concurrently, each in its own working directory. A failure
in one map does not stop the others; the exit code reflects the first
failure in argument order.`,
	Example: `  kraftver inspect "(2)EchoIsles.w3x"
  kraftver inspect --format json Maps/*.w3x
  kraftver inspect --keep-workdir --verbose broken.w3x`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	f := inspectCmd.Flags()
	f.StringVarP(&inspectFlags.configPath, "config", "c", "", "Config file (default ./"+config.ConfigFileName+" when present)")
	f.StringVarP(&inspectFlags.format, "format", "f", formatText, "Output format: text or json")
	f.DurationVar(&inspectFlags.timeout, "timeout", 0, "Extraction timeout (overrides config)")
	f.BoolVar(&inspectFlags.keepWorkDir, "keep-workdir", false, "Keep extracted files for inspection")
	f.BoolVar(&inspectFlags.strict, "strict", false, "Treat warnings as errors")
}

// result is the outcome of decoding one map.
type result struct {
	path string
	meta *kraftver.Metadata
	err  error
}

func runInspect(cmd *cobra.Command, args []string) error {
	format := inspectFlags.format
	if format != formatText && format != formatJSON {
		return fmt.Errorf("invalid argument %q for \"--format\": expected %s or %s", format, formatText, formatJSON)
	}

	cfg, err := config.Resolve(inspectFlags.configPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
	logger.Debug("configuration resolved",
		"extractor", cfg.Extractor.Command,
		"timeout", cfg.Extractor.Timeout,
		"work_root", cfg.WorkRoot,
		"concurrency", cfg.Concurrency)

	opts := []kraftver.Option{
		kraftver.WithExtractor(newExtractor(cfg)),
		kraftver.WithTimeout(cfg.Extractor.Timeout),
		kraftver.WithWorkRoot(cfg.WorkRoot),
		kraftver.WithLogger(logger),
	}
	if cmd.Flags().Changed("timeout") {
		if inspectFlags.timeout <= 0 {
			return fmt.Errorf("%w: --timeout must be positive, got %s", config.ErrInvalidConfig, inspectFlags.timeout)
		}
		opts = append(opts, kraftver.WithTimeout(inspectFlags.timeout))
	}
	if cfg.KeepWorkDir || inspectFlags.keepWorkDir {
		opts = append(opts, kraftver.WithKeepWorkDir())
	}
	if inspectFlags.strict {
		opts = append(opts, kraftver.WithStrictParsing())
	}

	results := inspectAll(ctx, args, cfg.Concurrency, opts)

	out := cmd.OutOrStdout()
	if format == formatJSON {
		err = writeJSON(out, results)
	} else {
		err = writeText(out, results)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	for _, r := range results {
		if r.err != nil {
			return r.err
		}
	}
	return nil
}

// inspectAll decodes every path, keeping per-map outcomes in argument order.
func inspectAll(ctx context.Context, paths []string, limit int, opts []kraftver.Option) []result {
	results := make([]result, len(paths))

	var g errgroup.Group
	g.SetLimit(max(limit, 1))

	for i, path := range paths {
		g.Go(func() error {
			meta, err := kraftver.OpenContext(ctx, path, opts...)
			results[i] = result{path: path, meta: meta, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
