package kraftver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kostich/kraftver/internal/archive"
	"github.com/kostich/kraftver/internal/container"
	"github.com/kostich/kraftver/internal/w3e"
	"github.com/kostich/kraftver/internal/w3i"
	"github.com/kostich/kraftver/internal/wts"
)

// Member names inside the map archive.
const (
	TerrainMember     = "war3map.w3e"
	StringTableMember = "war3map.wts"
	InfoMember        = "war3map.w3i"
)

// Open decodes the map file at path and returns its metadata.
//
// The container header is read directly from the file. Everything else
// comes from the embedded archive, which is unpacked by the configured
// extraction facility into a private working directory under the work
// root. The directory is removed before Open returns unless
// WithKeepWorkDir is given.
//
// Non-fatal problems, such as a protected archive whose catalog does not
// cover every member, are reported in Metadata.Warnings. Every fatal
// problem is a *DecodeError whose kind can be matched with errors.Is:
//
//	meta, err := kraftver.Open("(2)BootyBay.w3m")
//	if errors.Is(err, kraftver.ErrNotRecognized) {
//		return fmt.Errorf("not a map: %w", err)
//	}
func Open(path string, opts ...Option) (*Metadata, error) {
	return OpenContext(context.Background(), path, opts...)
}

// OpenContext is Open with cancellation support.
//
// Cancelling ctx stops the extraction facility; the pass then fails with
// ErrExtractionFailed.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//
//	meta, err := kraftver.OpenContext(ctx, "map.w3x")
func OpenContext(ctx context.Context, path string, opts ...Option) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, &DecodeError{Kind: ErrExtractionFailed, Path: path, Stage: "archive", Reason: "decoding cancelled", Err: err}
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.New(slog.DiscardHandler)
	}

	meta, err := decode(ctx, path, options)
	if err != nil {
		options.logger.Debug("decoding failed", "path", path, "error", err)
		return nil, err
	}

	if options.strictParsing && len(meta.Warnings) > 0 {
		return nil, fmt.Errorf("strict parsing failed: %s", meta.Warnings[0])
	}
	if options.ignoreWarnings {
		meta.Warnings = nil
	}

	return meta, nil
}

// OpenMany decodes several maps concurrently.
//
// Results are returned in the order of paths. The first failure cancels
// the remaining passes and is returned.
//
// Example:
//
//	metas, err := kraftver.OpenMany(ctx, paths, kraftver.WithConcurrency(2))
func OpenMany(ctx context.Context, paths []string, opts ...Option) ([]*Metadata, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(options.concurrency, 1))

	results := make([]*Metadata, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			meta, err := OpenContext(ctx, path, opts...)
			if err != nil {
				return err
			}
			results[i] = meta
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// decode runs the stages in order, stopping at the first failure.
func decode(ctx context.Context, path string, options *openOptions) (*Metadata, error) {
	log := options.logger.With("path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Kind: ErrNotRecognized, Path: path, Stage: "container", Reason: "cannot open file", Err: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, &DecodeError{Kind: ErrNotRecognized, Path: path, Stage: "container", Reason: "cannot stat file", Err: err}
	}
	size := stat.Size()

	if size == 0 {
		return nil, &DecodeError{Kind: ErrNotRecognized, Path: path, Stage: "container", Reason: "empty file"}
	}
	if !container.IsValid(f, size) {
		return nil, &DecodeError{Kind: ErrNotRecognized, Path: path, Stage: "container",
			Reason: fmt.Sprintf("missing %s magic", container.Magic)}
	}

	header, err := container.DecodeHeader(f, size, path)
	if err != nil {
		return nil, err
	}
	log.Debug("container header decoded", "name", header.Name, "max_players", header.MaxPlayers)

	workDir, err := makeWorkDir(options.workRoot)
	if err != nil {
		return nil, &DecodeError{Kind: ErrExtractionFailed, Path: path, Stage: "archive", Reason: "cannot create working directory", Err: err}
	}
	if options.keepWorkDir {
		log.Info("keeping working directory", "dir", workDir)
	} else {
		defer func() {
			if err := os.RemoveAll(workDir); err != nil {
				log.Warn("cannot remove working directory", "dir", workDir, "error", err)
			}
		}()
	}

	arc, err := archive.Reconcile(ctx, options.extractor, path, workDir, archive.Options{
		Logger:  log,
		Timeout: options.timeout,
	})
	if err != nil {
		return nil, err
	}

	terrainPath, err := member(arc, path, TerrainMember, ErrInvalidTerrainFile, "terrain")
	if err != nil {
		return nil, err
	}
	terrain, err := w3e.Decode(terrainPath)
	if err != nil {
		return nil, err
	}

	tablePath, err := member(arc, path, StringTableMember, ErrInvalidStringTable, "strings")
	if err != nil {
		return nil, err
	}
	table, err := wts.Decode(tablePath)
	if err != nil {
		return nil, err
	}
	log.Debug("string table decoded", "entries", table.Len())

	infoPath, err := member(arc, path, InfoMember, ErrMalformedInfoRecord, "info")
	if err != nil {
		return nil, err
	}
	info, err := w3i.Decode(infoPath, table)
	if err != nil {
		return nil, err
	}

	meta := &Metadata{
		FileName: filepath.Base(path),
		Header:   header,
		Info:     info,
		Terrain:  terrain,
	}
	meta.Warnings = append(meta.Warnings, arc.Warnings...)
	meta.Warnings = append(meta.Warnings, table.Warnings...)

	log.Debug("map decoded", "tileset", info.Tileset.Name, "warnings", len(meta.Warnings))
	return meta, nil
}

// member resolves a required archive member or fails with kind.
func member(arc *archive.Archive, path, name string, kind ErrorKind, stage string) (string, error) {
	p, ok := arc.Lookup(name)
	if !ok {
		return "", &DecodeError{Kind: kind, Path: path, Stage: stage, Reason: name + " not found in archive"}
	}
	return p, nil
}

// makeWorkDir creates a uniquely named directory under root.
func makeWorkDir(root string) (string, error) {
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "kraftver-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// Kind reports the failure kind carried by err, or zero when err is not a
// decoding failure.
func Kind(err error) ErrorKind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

