// Package archive turns the raw output of the extraction facility into a
// directory addressable by logical member names.
//
// Extraction tools without access to the archive's name hashes produce
// generically named files. The archive's own listfile is among them and is
// used to map the generic names back onto logical paths. The mapping relies
// on a positional convention that must not be changed: after sorting the
// produced entries by name, the last one is the attributes member, the one
// before it is the listfile, and the remaining entries pair with listfile
// lines counting from the end of both lists.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kostich/kraftver/internal/types"
)

// MinEntries is the fewest extracted entries a valid map produces.
const MinEntries = 16

const stage = "archive"

// Options configures Reconcile.
type Options struct {
	// Logger receives stage diagnostics; nil discards them.
	Logger *slog.Logger

	// Timeout bounds the extraction facility; zero means no bound
	// beyond the caller's context.
	Timeout time.Duration
}

// Archive is an extracted and reorganized map archive.
type Archive struct {
	// Dir is the directory holding the reorganized members.
	Dir string

	// Names lists the catalog entries in listfile order.
	Names []string

	// Warnings collected while reconciling.
	Warnings []types.Warning

	files map[string]string
}

// Lookup returns the on-disk path of a logical member.
// Names are matched case-insensitively, as the archive format does.
func (a *Archive) Lookup(name string) (string, bool) {
	p, ok := a.files[normalize(name)]
	return p, ok
}

// Reconcile runs ex on source, writing into dest, and renames the produced
// files to their logical names.
//
// dest must exist and be empty; the caller owns its cleanup.
func Reconcile(ctx context.Context, ex Extractor, source, dest string, opts Options) (*Archive, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	fail := func(kind types.ErrorKind, reason string, err error) error {
		return &types.DecodeError{Kind: kind, Path: source, Stage: stage, Reason: reason, Err: err}
	}

	if err := extract(ctx, ex, source, dest, opts.Timeout); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(dest)
	if err != nil {
		return nil, fail(types.ErrExtractionFailed, "cannot list extraction output", err)
	}
	entries := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, e.Name())
	}
	slices.Sort(entries)

	log.Debug("extraction finished", "path", source, "entries", len(entries))

	switch {
	case len(entries) == 0:
		return nil, fail(types.ErrExtractionFailed, "extraction produced no files", nil)
	case len(entries) < MinEntries:
		return nil, fail(types.ErrExtractionIncomplete,
			fmt.Sprintf("extraction produced %d entries, expected at least %d", len(entries), MinEntries), nil)
	}

	a := &Archive{Dir: dest, files: make(map[string]string)}

	catalogEntry := entries[len(entries)-2]
	attributesEntry := entries[len(entries)-1]
	physical := entries[:len(entries)-2]

	names, ok := readCatalog(filepath.Join(dest, catalogEntry))
	if !ok {
		names, ok = readCatalog(filepath.Join(dest, attributesEntry))
		if !ok {
			return nil, fail(types.ErrNoValidCatalog,
				fmt.Sprintf("neither %s nor %s is a listfile", catalogEntry, attributesEntry), nil)
		}
		catalogEntry, attributesEntry = attributesEntry, catalogEntry
		a.warn(log, "catalog/attributes order reversed")
	}

	for entry, reserved := range map[string]string{catalogEntry: ListfileName, attributesEntry: AttributesName} {
		target := filepath.Join(dest, reserved)
		if err := os.Rename(filepath.Join(dest, entry), target); err != nil {
			return nil, fail(types.ErrExtractionFailed, "cannot rename "+reserved, err)
		}
		a.files[normalize(reserved)] = target
	}

	a.Names = names
	if len(names) != len(physical) {
		a.warn(log, fmt.Sprintf("catalog lists %d files but %d were extracted; the map is probably protected",
			len(names), len(physical)))
	}

	for i := 1; i <= min(len(names), len(physical)); i++ {
		src := physical[len(physical)-i]
		logical := names[len(names)-i]
		if err := a.place(src, logical); err != nil {
			a.warn(log, err.Error())
		}
	}

	log.Debug("archive reconciled", "path", source, "files", len(a.files), "warnings", len(a.Warnings))
	return a, nil
}

// extract runs the facility under the timeout and checks its status.
func extract(ctx context.Context, ex Extractor, source, dest string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := ex.Extract(ctx, source, dest)
	if ctxErr := ctx.Err(); ctxErr != nil {
		reason := "extraction cancelled"
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			reason = fmt.Sprintf("extraction timed out after %s", timeout)
		}
		return &types.DecodeError{Kind: types.ErrExtractionFailed, Path: source, Stage: stage, Reason: reason, Err: ctxErr}
	}
	if err != nil {
		return &types.DecodeError{Kind: types.ErrExtractionFailed, Path: source, Stage: stage, Reason: "extractor could not run", Err: err}
	}
	if res == nil {
		return &types.DecodeError{Kind: types.ErrExtractionFailed, Path: source, Stage: stage, Reason: "extractor reported no result"}
	}
	if res.ExitCode != 0 {
		return &types.DecodeError{
			Kind:       types.ErrExtractionFailed,
			Path:       source,
			Stage:      stage,
			Reason:     fmt.Sprintf("extractor exited with status %d", res.ExitCode),
			Diagnostic: res.Stderr,
		}
	}
	return nil
}

// place moves the generic entry src to its logical path, creating the
// directories implied by backslash separators.
func (a *Archive) place(src, logical string) error {
	rel := filepath.FromSlash(strings.ReplaceAll(logical, `\`, "/"))
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("skipped catalog entry %q: not a local path", logical)
	}

	target := filepath.Join(a.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("skipped catalog entry %q: %w", logical, err)
	}
	if err := os.Rename(filepath.Join(a.Dir, src), target); err != nil {
		return fmt.Errorf("skipped catalog entry %q: %w", logical, err)
	}

	a.files[normalize(logical)] = target
	return nil
}

func (a *Archive) warn(log *slog.Logger, msg string) {
	log.Warn(msg, "stage", stage)
	a.Warnings = append(a.Warnings, types.Warning{Stage: stage, Message: msg})
}

func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "/", `\`))
}
