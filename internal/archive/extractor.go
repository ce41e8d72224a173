package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Placeholders substituted into CommandExtractor arguments.
const (
	SourcePlaceholder = "{source}"
	DestPlaceholder   = "{dest}"
)

// waitDelay is how long a cancelled command may keep its output pipes open.
// Children that outlive the killed process would otherwise block Wait.
const waitDelay = 250 * time.Millisecond

// Extraction is what the extraction facility reports about a run.
// The produced files themselves are read from the destination directory.
type Extraction struct {
	Stderr   string
	ExitCode int
}

// Extractor unpacks the archive embedded in a map container into dest.
//
// Implementations may name the produced files however they like; Reconcile
// only relies on their lexicographic order.
type Extractor interface {
	Extract(ctx context.Context, source, dest string) (*Extraction, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, source, dest string) (*Extraction, error)

// Extract calls f(ctx, source, dest).
func (f ExtractorFunc) Extract(ctx context.Context, source, dest string) (*Extraction, error) {
	return f(ctx, source, dest)
}

// CommandExtractor runs an external tool with an argument vector.
//
// No shell is involved: every element of Args is passed as one argument after
// replacing {source} and {dest}.
type CommandExtractor struct {
	Command string
	Args    []string
}

// Extract runs the command and captures its stderr.
//
// A non-zero exit is reported through Extraction.ExitCode, not as an error;
// an error means the command could not be run at all.
func (c *CommandExtractor) Extract(ctx context.Context, source, dest string) (*Extraction, error) {
	replacer := strings.NewReplacer(SourcePlaceholder, source, DestPlaceholder, dest)
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = replacer.Replace(a)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Command, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	diag := strings.TrimSpace(stderr.String())

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &Extraction{ExitCode: exitErr.ExitCode(), Stderr: diag}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", c.Command, err)
	}

	return &Extraction{Stderr: diag}, nil
}

// DefaultCommand is the extraction tool used when none is configured.
const DefaultCommand = "MPQExtractor"

// DefaultArgs returns the argument vector for DefaultCommand: extract every
// member of {source} into {dest}.
func DefaultArgs() []string {
	return []string{"-e", "*", "-o", DestPlaceholder, SourcePlaceholder}
}
