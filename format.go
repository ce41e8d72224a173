package kraftver

import (
	"github.com/kostich/kraftver/internal/archive"
	"github.com/kostich/kraftver/internal/types"
)

// Format is an alias to types.Format.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown      = types.FormatUnknown
	FormatReignOfChaos = types.FormatReignOfChaos
	FormatFrozenThrone = types.FormatFrozenThrone
)

// Header, Info, Terrain, Tileset and Metadata are aliases to their
// internal/types counterparts.
type (
	Header       = types.Header
	Info         = types.Info
	CameraBounds = types.CameraBounds
	Terrain      = types.Terrain
	Tileset      = types.Tileset
	Metadata     = types.Metadata
)

// Extractor, ExtractorFunc, Extraction and CommandExtractor are aliases to
// the extraction facility types in internal/archive.
type (
	Extractor        = archive.Extractor
	ExtractorFunc    = archive.ExtractorFunc
	Extraction       = archive.Extraction
	CommandExtractor = archive.CommandExtractor
)

// FormatForVersion maps an info record format version to a Format.
func FormatForVersion(version uint32) Format {
	return types.FormatForVersion(version)
}

// TilesetName translates a tileset code into its display name.
func TilesetName(code byte) string {
	return types.TilesetName(code)
}

// Tilesets returns every known tileset ordered by code.
func Tilesets() []Tileset {
	return types.Tilesets()
}
