// Package w3e validates the terrain sub-file (war3map.w3e) header.
package w3e

import (
	"fmt"
	"io"
	"os"

	"github.com/kostich/kraftver/internal/binary"
	"github.com/kostich/kraftver/internal/types"
)

// Signature starts every terrain file.
const Signature = "W3E!"

// tilesetOffset is the position of the main tileset code; the format
// version sits between it and the signature.
const tilesetOffset = 8

// Decode reads the terrain header at path.
func Decode(path string) (types.Terrain, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Terrain{}, &types.DecodeError{Kind: types.ErrInvalidTerrainFile, Path: path, Stage: "terrain", Reason: "cannot open terrain file", Err: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return types.Terrain{}, &types.DecodeError{Kind: types.ErrInvalidTerrainFile, Path: path, Stage: "terrain", Reason: "cannot stat terrain file", Err: err}
	}

	return DecodeReader(f, stat.Size(), path)
}

// DecodeReader reads a terrain header from r.
func DecodeReader(r io.ReaderAt, size int64, path string) (types.Terrain, error) {
	sr := binary.NewSafeReader(r, size, path)

	sig := make([]byte, len(Signature))
	if err := sr.ReadAt(sig, 0, "terrain signature"); err != nil {
		return types.Terrain{}, &types.DecodeError{Kind: types.ErrInvalidTerrainFile, Path: path, Stage: "terrain", Reason: "terrain file too short", Err: err}
	}
	if string(sig) != Signature {
		return types.Terrain{}, &types.DecodeError{
			Kind:   types.ErrInvalidTerrainFile,
			Path:   path,
			Stage:  "terrain",
			Reason: fmt.Sprintf("bad signature %q, want %q", sig, Signature),
		}
	}

	code, err := binary.Read[uint8](sr, tilesetOffset, "main tileset")
	if err != nil {
		return types.Terrain{}, &types.DecodeError{Kind: types.ErrInvalidTerrainFile, Path: path, Stage: "terrain", Offset: tilesetOffset, Reason: "terrain header truncated", Err: err}
	}

	return types.Terrain{
		Signature: string(sig),
		Tileset:   types.DecodeTileset(code),
	}, nil
}
