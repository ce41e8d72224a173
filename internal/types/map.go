// Package types provides the core data structures for Warcraft III map metadata.
//
// This package defines the Header, Info, Terrain and Metadata types that the
// decoding pipeline produces, together with the error taxonomy shared by every
// stage.
package types

// Header is the fixed-offset record at the start of the map container.
type Header struct {
	// Map name as stored in the container header
	Name string `json:"name"`

	// Feature flags, 8 binary digits per byte in read order
	Flags string `json:"flags"`

	// Player capacity
	MaxPlayers uint32 `json:"max_players"`
}

// CameraBounds holds the camera coordinates of the info record.
type CameraBounds struct {
	Left   float32 `json:"left"`
	Bottom float32 `json:"bottom"`
	Right  float32 `json:"right"`
	Top    float32 `json:"top"`
}

// Info is the map's descriptive record (war3map.w3i).
//
// String fields hold the resolved text: TRIGSTR references have already been
// replaced by their string table values.
type Info struct {
	// Version is "expansion not required", "expansion required" or the raw
	// format version number for unknown formats.
	Version       string `json:"version"`
	FormatVersion uint32 `json:"format_version"`
	SaveVersion   uint32 `json:"save_version"`
	EditorVersion uint32 `json:"editor_version"`

	Name               string `json:"name"`
	Author             string `json:"author"`
	Description        string `json:"description"`
	RecommendedPlayers string `json:"recommended_players"`

	Camera CameraBounds `json:"camera"`

	// Complements are added around the playable area to get the full map size.
	Complements    [4]uint32 `json:"complements"`
	PlayableWidth  uint32    `json:"playable_width"`
	PlayableHeight uint32    `json:"playable_height"`
	Width          uint64    `json:"width"`
	Height         uint64    `json:"height"`

	// Secondary flags, same rendering as Header.Flags
	Flags string `json:"flags"`

	Tileset Tileset `json:"tileset"`
}

// Terrain is the validated header of the terrain sub-file (war3map.w3e).
type Terrain struct {
	Signature string  `json:"signature"`
	Tileset   Tileset `json:"tileset"`
}

// Metadata is the aggregate produced by a successful decoding pass.
//
// It owns no resources: every field is plain value data.
type Metadata struct {
	// Base name of the decoded file
	FileName string `json:"file_name"`

	Header   Header    `json:"header"`
	Info     Info      `json:"info"`
	Terrain  Terrain   `json:"terrain"`
	Warnings []Warning `json:"warnings,omitempty"`
}
