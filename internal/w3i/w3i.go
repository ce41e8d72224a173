// Package w3i decodes the map info record (war3map.w3i).
package w3i

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/kostich/kraftver/internal/binary"
	"github.com/kostich/kraftver/internal/types"
	"github.com/kostich/kraftver/internal/wts"
)

const stage = "info"

// Decode reads the info record at path, resolving string references
// through table.
func Decode(path string, table *wts.Table) (types.Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Info{}, &types.DecodeError{Kind: types.ErrMalformedInfoRecord, Path: path, Stage: stage, Reason: "cannot open info record", Err: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return types.Info{}, &types.DecodeError{Kind: types.ErrMalformedInfoRecord, Path: path, Stage: stage, Reason: "cannot stat info record", Err: err}
	}

	return DecodeReader(f, stat.Size(), path, table)
}

// DecodeReader decodes an info record from r.
func DecodeReader(r io.ReaderAt, size int64, path string, table *wts.Table) (types.Info, error) {
	sr := binary.NewSafeReader(r, size, path)
	cr := binary.NewChainReader(binary.NewReader(sr, 0))

	var info types.Info
	info.FormatVersion = binary.ReadChained[uint32](cr, "format version")
	info.SaveVersion = binary.ReadChained[uint32](cr, "map save version")
	info.EditorVersion = binary.ReadChained[uint32](cr, "editor version")
	info.Version = types.VersionLabel(info.FormatVersion)

	fields := []struct {
		dst  *string
		what string
		off  int64
		raw  []byte
	}{
		{dst: &info.Name, what: "map name"},
		{dst: &info.Author, what: "map author"},
		{dst: &info.Description, what: "map description"},
		{dst: &info.RecommendedPlayers, what: "recommended players"},
	}
	for i := range fields {
		fields[i].off = cr.Offset()
		fields[i].raw = cr.CString(fields[i].what)
	}
	if err := cr.Error(); err != nil {
		return types.Info{}, truncated(path, cr, err)
	}

	for _, f := range fields {
		text, err := resolve(path, f.off, f.what, f.raw, table)
		if err != nil {
			return types.Info{}, err
		}
		*f.dst = text
	}

	info.Camera = types.CameraBounds{
		Left:   cr.Float32("camera bound left"),
		Bottom: cr.Float32("camera bound bottom"),
		Right:  cr.Float32("camera bound right"),
		Top:    cr.Float32("camera bound top"),
	}
	// Four more 32-bit values of unknown purpose.
	cr.Skip(16)

	for i := range info.Complements {
		info.Complements[i] = binary.ReadChained[uint32](cr, "camera bounds complement")
	}
	info.PlayableWidth = binary.ReadChained[uint32](cr, "playable width")
	info.PlayableHeight = binary.ReadChained[uint32](cr, "playable height")
	flags := cr.Bytes(4, "map flags")
	tileset := binary.ReadChained[uint8](cr, "main ground tileset")

	if err := cr.Error(); err != nil {
		return types.Info{}, truncated(path, cr, err)
	}

	c := info.Complements
	// Summed in 64 bits so hostile complements cannot wrap.
	info.Width = uint64(c[0]) + uint64(info.PlayableWidth) + uint64(c[1])
	info.Height = uint64(c[2]) + uint64(info.PlayableHeight) + uint64(c[3])
	info.Flags = binary.BitString(flags)
	info.Tileset = types.DecodeTileset(tileset)

	return info, nil
}

// resolve turns a raw string field into its text, following TRIGSTR
// references into the string table.
func resolve(path string, off int64, what string, raw []byte, table *wts.Table) (string, error) {
	text := string(raw)

	if wts.IsReference(text) {
		key := strings.TrimSpace(strings.ReplaceAll(text, "\x00", ""))
		if table != nil {
			if v, ok := table.Lookup(key); ok {
				return v, nil
			}
		}
		return "", &types.DecodeError{
			Kind:   types.ErrStringLookupMiss,
			Path:   path,
			Stage:  stage,
			Offset: off,
			Reason: fmt.Sprintf("%s refers to %s which is not in the string table", what, key),
		}
	}

	if !utf8.ValidString(text) {
		return "", &types.DecodeError{
			Kind:   types.ErrMalformedInfoRecord,
			Path:   path,
			Stage:  stage,
			Offset: off,
			Reason: what + " is not valid UTF-8",
		}
	}
	return text, nil
}

func truncated(path string, cr *binary.ChainReader, err error) error {
	return &types.DecodeError{
		Kind:   types.ErrMalformedInfoRecord,
		Path:   path,
		Stage:  stage,
		Offset: cr.ErrorOffset(),
		Reason: "info record truncated",
		Err:    err,
	}
}
