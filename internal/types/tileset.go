package types

import (
	"fmt"
	"slices"
)

// Tileset is a decoded main-ground tileset code.
type Tileset struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var tilesetNames = map[byte]string{
	'A': "Ashenvale",
	'B': "Barrens",
	'C': "Felwood",
	'D': "Dungeon",
	'F': "Lordaeron Fall",
	'G': "Underground",
	'I': "Icecrown",
	'J': "Dalaran Ruins",
	'K': "Black Citadel",
	'L': "Lordaeron Summer",
	'N': "Northrend",
	'O': "Outland",
	'Q': "Village Fall",
	'V': "Village",
	'W': "Lordaeron Winter",
	'X': "Dalaran",
	'Y': "Cityscape",
	'Z': "Sunken Ruins",
}

// TilesetName translates a tileset code into its display name.
// Unrecognized codes yield a label naming the code instead of failing.
func TilesetName(code byte) string {
	if name, ok := tilesetNames[code]; ok {
		return name
	}
	return fmt.Sprintf("unknown tileset code %q", rune(code))
}

// DecodeTileset builds a Tileset from its one-byte code.
func DecodeTileset(code byte) Tileset {
	return Tileset{Code: string(rune(code)), Name: TilesetName(code)}
}

// Tilesets returns every known tileset ordered by code.
func Tilesets() []Tileset {
	codes := make([]byte, 0, len(tilesetNames))
	for code := range tilesetNames {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	out := make([]Tileset, 0, len(codes))
	for _, code := range codes {
		out = append(out, DecodeTileset(code))
	}
	return out
}
