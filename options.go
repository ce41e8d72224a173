package kraftver

import (
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/kostich/kraftver/internal/archive"
)

// DefaultTimeout bounds the extraction facility when no timeout is given.
const DefaultTimeout = 30 * time.Second

// Option configures behavior when decoding map files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	meta, err := kraftver.Open("map.w3x",
//	    kraftver.WithTimeout(10*time.Second),
//	    kraftver.WithStrictParsing(),
//	)
type Option func(*openOptions)

// openOptions holds the request-scoped configuration of one decoding pass.
type openOptions struct {
	extractor      Extractor
	logger         *slog.Logger
	workRoot       string
	timeout        time.Duration
	concurrency    int
	keepWorkDir    bool // Leave the working directory behind for inspection
	strictParsing  bool // Fail on any warning
	ignoreWarnings bool // Suppress all warnings
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		extractor:   DefaultExtractor(),
		logger:      slog.New(slog.DiscardHandler),
		workRoot:    os.TempDir(),
		timeout:     DefaultTimeout,
		concurrency: runtime.NumCPU(),
	}
}

// DefaultExtractor returns the command-line extraction facility used when
// no other is configured.
func DefaultExtractor() *CommandExtractor {
	return &CommandExtractor{Command: archive.DefaultCommand, Args: archive.DefaultArgs()}
}

// WithExtractor replaces the extraction facility.
func WithExtractor(ex Extractor) Option {
	return func(o *openOptions) {
		o.extractor = ex
	}
}

// WithTimeout bounds the extraction facility. On expiry decoding fails with
// ErrExtractionFailed.
func WithTimeout(d time.Duration) Option {
	return func(o *openOptions) {
		o.timeout = d
	}
}

// WithWorkRoot sets the directory under which each pass creates its own
// working directory. Defaults to os.TempDir().
func WithWorkRoot(dir string) Option {
	return func(o *openOptions) {
		o.workRoot = dir
	}
}

// WithKeepWorkDir leaves the extracted files on disk after decoding.
//
// The caller becomes responsible for removing them.
func WithKeepWorkDir() Option {
	return func(o *openOptions) {
		o.keepWorkDir = true
	}
}

// WithLogger routes stage diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		o.logger = logger
	}
}

// WithConcurrency limits how many maps OpenMany decodes at once.
// Defaults to runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(o *openOptions) {
		o.concurrency = n
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default a reversed catalog or a protected archive is reported in
// Metadata.Warnings and decoding continues.
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}
