package kraftver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kostich/kraftver"
	"github.com/kostich/kraftver/internal/fixture"
)

// writeMap writes a container header for name into dir.
func writeMap(t *testing.T, dir, file, name string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, fixture.Container(name, [4]byte{0x00, 0x00, 0x80, 0x15}, 2), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// listingExtractor writes l into the destination and counts invocations.
func listingExtractor(l fixture.Listing, calls *atomic.Int32) kraftver.Extractor {
	return kraftver.ExtractorFunc(func(ctx context.Context, source, dest string) (*kraftver.Extraction, error) {
		if calls != nil {
			calls.Add(1)
		}
		return &kraftver.Extraction{}, l.Write(dest)
	})
}

func defaultListing() fixture.Listing {
	return fixture.NewListing(fixture.MapFiles(fixture.DefaultInfo(), fixture.DefaultStrings(), 'L', 20))
}

func TestOpen_DecodesMap(t *testing.T) {
	dir := t.TempDir()
	path := writeMap(t, dir, "(2)TestMap.w3x", "Test Map")
	workRoot := t.TempDir()

	meta, err := kraftver.Open(path,
		kraftver.WithExtractor(listingExtractor(defaultListing(), nil)),
		kraftver.WithWorkRoot(workRoot),
	)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if meta.FileName != "(2)TestMap.w3x" {
		t.Errorf("FileName = %q", meta.FileName)
	}
	if meta.Header.Name != "Test Map" {
		t.Errorf("Header.Name = %q", meta.Header.Name)
	}
	if meta.Header.Flags != "00000000000000001000000000010101" {
		t.Errorf("Header.Flags = %q", meta.Header.Flags)
	}
	if meta.Header.MaxPlayers != 2 {
		t.Errorf("Header.MaxPlayers = %d", meta.Header.MaxPlayers)
	}

	info := meta.Info
	if info.Name != "TestMap" || info.Author != "Kostich" || info.RecommendedPlayers != "1v1" {
		t.Errorf("unexpected resolved strings: %+v", info)
	}
	if info.Description != "Two players\nfight it out" {
		t.Errorf("Description = %q", info.Description)
	}
	if info.Version != "expansion required" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Width != 6+84+6 || info.Height != 4+84+8 {
		t.Errorf("size = %dx%d", info.Width, info.Height)
	}
	if info.Tileset.Name != "Lordaeron Summer" {
		t.Errorf("Tileset = %+v", info.Tileset)
	}
	if meta.Terrain.Signature != "W3E!" || meta.Terrain.Tileset.Code != "L" {
		t.Errorf("Terrain = %+v", meta.Terrain)
	}
	if len(meta.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", meta.Warnings)
	}

	entries, err := os.ReadDir(workRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("working directory not removed: %v", entries)
	}
}

func TestOpen_KeepWorkDir(t *testing.T) {
	path := writeMap(t, t.TempDir(), "keep.w3x", "Keep")
	workRoot := t.TempDir()

	if _, err := kraftver.Open(path,
		kraftver.WithExtractor(listingExtractor(defaultListing(), nil)),
		kraftver.WithWorkRoot(workRoot),
		kraftver.WithKeepWorkDir(),
	); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	entries, err := os.ReadDir(workRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "kraftver-") {
		t.Fatalf("expected one kept working directory, got %v", entries)
	}
	if _, err := os.Stat(filepath.Join(workRoot, entries[0].Name(), "war3map.w3i")); err != nil {
		t.Errorf("kept directory should hold reconciled members: %v", err)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := writeMap(t, t.TempDir(), "twice.w3x", "Twice")
	opts := []kraftver.Option{
		kraftver.WithExtractor(listingExtractor(defaultListing(), nil)),
		kraftver.WithWorkRoot(t.TempDir()),
	}

	first, err := kraftver.Open(path, opts...)
	if err != nil {
		t.Fatalf("first Open() error = %v", err)
	}
	second, err := kraftver.Open(path, opts...)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated decoding differs:\n%+v\n%+v", first, second)
	}
}

func TestOpen_NotRecognized(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty file", nil},
		{"wrong magic", []byte("MPQ\x1a not a map container")},
		{"short file", []byte("HM3")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.w3x")
			if err := os.WriteFile(path, tt.data, 0o644); err != nil {
				t.Fatal(err)
			}

			var calls atomic.Int32
			_, err := kraftver.Open(path,
				kraftver.WithExtractor(listingExtractor(defaultListing(), &calls)),
				kraftver.WithWorkRoot(t.TempDir()),
			)
			if !errors.Is(err, kraftver.ErrNotRecognized) {
				t.Fatalf("expected ErrNotRecognized, got %v", err)
			}
			if calls.Load() != 0 {
				t.Error("extractor must not run for unrecognized files")
			}
		})
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := kraftver.Open(filepath.Join(t.TempDir(), "absent.w3x"))
	if !errors.Is(err, kraftver.ErrNotRecognized) {
		t.Fatalf("expected ErrNotRecognized, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cause should be preserved, got %v", err)
	}
}

func TestOpen_MissingMembers(t *testing.T) {
	tests := []struct {
		name   string
		member string
		kind   kraftver.ErrorKind
	}{
		{"terrain", kraftver.TerrainMember, kraftver.ErrInvalidTerrainFile},
		{"string table", kraftver.StringTableMember, kraftver.ErrInvalidStringTable},
		{"info record", kraftver.InfoMember, kraftver.ErrMalformedInfoRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := fixture.MapFiles(fixture.DefaultInfo(), fixture.DefaultStrings(), 'L', 20)
			for i := range files {
				if files[i].Name == tt.member {
					files[i].Name = "renamed.bin"
				}
			}

			path := writeMap(t, t.TempDir(), "partial.w3x", "Partial")
			_, err := kraftver.Open(path,
				kraftver.WithExtractor(listingExtractor(fixture.NewListing(files), nil)),
				kraftver.WithWorkRoot(t.TempDir()),
			)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestOpen_StringLookupMiss(t *testing.T) {
	table := fixture.DefaultStrings()
	delete(table, 2)
	files := fixture.MapFiles(fixture.DefaultInfo(), table, 'L', 20)

	path := writeMap(t, t.TempDir(), "miss.w3x", "Miss")
	_, err := kraftver.Open(path,
		kraftver.WithExtractor(listingExtractor(fixture.NewListing(files), nil)),
		kraftver.WithWorkRoot(t.TempDir()),
	)
	if !errors.Is(err, kraftver.ErrStringLookupMiss) {
		t.Fatalf("expected ErrStringLookupMiss, got %v", err)
	}
}

func TestOpen_Warnings(t *testing.T) {
	l := defaultListing()
	l.Swap = true
	path := writeMap(t, t.TempDir(), "swapped.w3x", "Swapped")

	tests := []struct {
		name     string
		opts     []kraftver.Option
		warnings int
		wantErr  bool
	}{
		{name: "default", warnings: 1},
		{name: "ignore", opts: []kraftver.Option{kraftver.WithIgnoreWarnings()}},
		{name: "strict", opts: []kraftver.Option{kraftver.WithStrictParsing()}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]kraftver.Option{
				kraftver.WithExtractor(listingExtractor(l, nil)),
				kraftver.WithWorkRoot(t.TempDir()),
			}, tt.opts...)

			meta, err := kraftver.Open(path, opts...)
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "catalog/attributes order reversed") {
					t.Fatalf("expected strict failure, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if len(meta.Warnings) != tt.warnings {
				t.Errorf("got %d warnings, want %d: %v", len(meta.Warnings), tt.warnings, meta.Warnings)
			}
		})
	}
}

func TestOpen_ExtractionTimeout(t *testing.T) {
	path := writeMap(t, t.TempDir(), "slow.w3x", "Slow")
	slow := kraftver.ExtractorFunc(func(ctx context.Context, source, dest string) (*kraftver.Extraction, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	_, err := kraftver.Open(path,
		kraftver.WithExtractor(slow),
		kraftver.WithTimeout(20*time.Millisecond),
		kraftver.WithWorkRoot(t.TempDir()),
	)
	if !errors.Is(err, kraftver.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestOpenContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := kraftver.OpenContext(ctx, "any.w3x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if !errors.Is(err, kraftver.ErrExtractionFailed) {
		t.Errorf("expected ErrExtractionFailed, got %v", err)
	}

	var de *kraftver.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *kraftver.DecodeError, got %T", err)
	}
	if de.Stage != "archive" || de.Path != "any.w3x" {
		t.Errorf("DecodeError = %+v", de)
	}
}

func TestOpenMany(t *testing.T) {
	dir := t.TempDir()
	names := []string{"One", "Two", "Three", "Four"}
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = writeMap(t, dir, name+".w3x", name)
	}

	var calls atomic.Int32
	metas, err := kraftver.OpenMany(context.Background(), paths,
		kraftver.WithExtractor(listingExtractor(defaultListing(), &calls)),
		kraftver.WithWorkRoot(t.TempDir()),
		kraftver.WithConcurrency(2),
	)
	if err != nil {
		t.Fatalf("OpenMany() error = %v", err)
	}

	if len(metas) != len(names) {
		t.Fatalf("got %d results, want %d", len(metas), len(names))
	}
	for i, name := range names {
		if metas[i].Header.Name != name {
			t.Errorf("result %d: Header.Name = %q, want %q", i, metas[i].Header.Name, name)
		}
	}
	if calls.Load() != int32(len(names)) {
		t.Errorf("extractor ran %d times, want %d", calls.Load(), len(names))
	}
}

func TestOpenMany_FailureStopsBatch(t *testing.T) {
	dir := t.TempDir()
	good := writeMap(t, dir, "good.w3x", "Good")
	bad := filepath.Join(dir, "bad.w3x")
	if err := os.WriteFile(bad, []byte("not a map"), 0o644); err != nil {
		t.Fatal(err)
	}

	metas, err := kraftver.OpenMany(context.Background(), []string{good, bad},
		kraftver.WithExtractor(listingExtractor(defaultListing(), nil)),
		kraftver.WithWorkRoot(t.TempDir()),
	)
	if !errors.Is(err, kraftver.ErrNotRecognized) {
		t.Fatalf("expected ErrNotRecognized, got %v", err)
	}
	if metas != nil {
		t.Error("no results should be returned on failure")
	}
}

func TestOpenMany_Empty(t *testing.T) {
	metas, err := kraftver.OpenMany(context.Background(), nil)
	if err != nil || metas != nil {
		t.Errorf("OpenMany(nil) = %v, %v", metas, err)
	}
}
