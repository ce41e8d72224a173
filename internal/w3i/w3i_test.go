package w3i

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kostich/kraftver/internal/fixture"
	"github.com/kostich/kraftver/internal/types"
	"github.com/kostich/kraftver/internal/wts"
)

func defaultTable(t *testing.T) *wts.Table {
	t.Helper()
	table, err := wts.DecodeReader(bytes.NewReader(fixture.StringTable(fixture.DefaultStrings())), "war3map.wts")
	if err != nil {
		t.Fatalf("string table: %v", err)
	}
	return table
}

func decode(t *testing.T, info fixture.Info, table *wts.Table) (types.Info, error) {
	t.Helper()
	data := info.Bytes()
	return DecodeReader(bytes.NewReader(data), int64(len(data)), "war3map.w3i", table)
}

func TestDecode_ResolvesReferences(t *testing.T) {
	got, err := decode(t, fixture.DefaultInfo(), defaultTable(t))
	if err != nil {
		t.Fatalf("DecodeReader() error = %v", err)
	}

	checks := []struct{ field, got, want string }{
		{"Version", got.Version, "expansion required"},
		{"Name", got.Name, "TestMap"},
		{"Author", got.Author, "Kostich"},
		{"Description", got.Description, "Two players\nfight it out"},
		{"RecommendedPlayers", got.RecommendedPlayers, "1v1"},
		{"Flags", got.Flags, "00000000000000001000000000010101"},
		{"Tileset", got.Tileset.Name, "Lordaeron Summer"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}

	if got.FormatVersion != 25 || got.SaveVersion != 7 || got.EditorVersion != 6059 {
		t.Errorf("versions = %d/%d/%d", got.FormatVersion, got.SaveVersion, got.EditorVersion)
	}

	wantCamera := types.CameraBounds{Left: -3328, Bottom: -3584, Right: 3328, Top: 3072}
	if got.Camera != wantCamera {
		t.Errorf("Camera = %+v, want %+v", got.Camera, wantCamera)
	}

	if got.Width != 96 || got.Height != 96 {
		t.Errorf("dimensions = %dx%d, want 96x96", got.Width, got.Height)
	}
}

func TestDecode_LiteralStrings(t *testing.T) {
	info := fixture.DefaultInfo()
	info.FormatVersion = 18
	info.Name = "Čarobna šuma"
	info.Author = "Unknown"
	info.Description = ""
	info.Players = "Any"

	got, err := decode(t, info, nil)
	if err != nil {
		t.Fatalf("DecodeReader() error = %v", err)
	}

	if got.Version != "expansion not required" {
		t.Errorf("Version = %q", got.Version)
	}
	if got.Name != info.Name || got.Author != "Unknown" || got.Description != "" || got.RecommendedPlayers != "Any" {
		t.Errorf("unexpected strings: %+v", got)
	}
}

func TestDecode_DerivedDimensions(t *testing.T) {
	info := fixture.DefaultInfo()
	info.Complements = [4]uint32{2, 3, 4, 5}
	info.Width = 100
	info.Height = 50

	got, err := decode(t, info, defaultTable(t))
	if err != nil {
		t.Fatalf("DecodeReader() error = %v", err)
	}

	if got.Width != 105 {
		t.Errorf("Width = %d, want 105", got.Width)
	}
	if got.Height != 59 {
		t.Errorf("Height = %d, want 59", got.Height)
	}
	if got.PlayableWidth != 100 || got.PlayableHeight != 50 {
		t.Errorf("playable = %dx%d", got.PlayableWidth, got.PlayableHeight)
	}
}

func TestDecode_LargeComplementsDoNotWrap(t *testing.T) {
	info := fixture.DefaultInfo()
	info.Complements = [4]uint32{math.MaxUint32, 1, math.MaxUint32, math.MaxUint32}
	info.Width = 1
	info.Height = math.MaxUint32

	got, err := decode(t, info, defaultTable(t))
	if err != nil {
		t.Fatalf("DecodeReader() error = %v", err)
	}

	if want := uint64(math.MaxUint32) + 2; got.Width != want {
		t.Errorf("Width = %d, want %d", got.Width, want)
	}
	if want := 3 * uint64(math.MaxUint32); got.Height != want {
		t.Errorf("Height = %d, want %d", got.Height, want)
	}
}

func TestDecode_UnknownVersionAndTileset(t *testing.T) {
	info := fixture.DefaultInfo()
	info.FormatVersion = 31
	info.Tileset = '!'

	got, err := decode(t, info, defaultTable(t))
	if err != nil {
		t.Fatalf("DecodeReader() error = %v", err)
	}

	if got.Version != "31" {
		t.Errorf("Version = %q, want %q", got.Version, "31")
	}
	if !strings.Contains(got.Tileset.Name, "!") {
		t.Errorf("Tileset.Name = %q should name the code", got.Tileset.Name)
	}
}

func TestDecode_LookupMiss(t *testing.T) {
	info := fixture.DefaultInfo()
	info.Author = "TRIGSTR_099"

	_, err := decode(t, info, defaultTable(t))
	if !errors.Is(err, types.ErrStringLookupMiss) {
		t.Fatalf("expected ErrStringLookupMiss, got %v", err)
	}
	if !strings.Contains(err.Error(), "TRIGSTR_099") {
		t.Errorf("error should name the key: %v", err)
	}
}

func TestDecode_Truncated(t *testing.T) {
	full := fixture.DefaultInfo().Bytes()
	stringsEnd := 12 + len("TRIGSTR_001")*4 + 4

	for _, size := range []int{0, 3, 11, 20, stringsEnd + 5, stringsEnd + 40, stringsEnd + 60} {
		data := full[:size]
		_, err := DecodeReader(bytes.NewReader(data), int64(len(data)), "war3map.w3i", defaultTable(t))
		if !errors.Is(err, types.ErrMalformedInfoRecord) {
			t.Errorf("size %d: expected ErrMalformedInfoRecord, got %v", size, err)
		}
	}
}

func TestDecode_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "war3map.w3i")
	if err := os.WriteFile(path, fixture.DefaultInfo().Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Decode(path, defaultTable(t))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Name != "TestMap" {
		t.Errorf("Name = %q", got.Name)
	}

	_, err = Decode(filepath.Join(t.TempDir(), "missing.w3i"), nil)
	if !errors.Is(err, types.ErrMalformedInfoRecord) {
		t.Errorf("missing file: expected ErrMalformedInfoRecord, got %v", err)
	}
}
