package types

import "strconv"

// Format identifies the map format generation recorded in the info record.
type Format int

const (
	// FormatUnknown is any info record version this package does not name.
	FormatUnknown Format = iota
	// FormatReignOfChaos is a map playable without the expansion (version 18).
	FormatReignOfChaos
	// FormatFrozenThrone is a map requiring the expansion (version 25).
	FormatFrozenThrone
)

// Info record format versions.
const (
	versionReignOfChaos = 18
	versionFrozenThrone = 25
)

// FormatForVersion maps an info record format version to a Format.
func FormatForVersion(version uint32) Format {
	switch version {
	case versionReignOfChaos:
		return FormatReignOfChaos
	case versionFrozenThrone:
		return FormatFrozenThrone
	default:
		return FormatUnknown
	}
}

func (f Format) String() string {
	switch f {
	case FormatReignOfChaos:
		return "Reign of Chaos"
	case FormatFrozenThrone:
		return "The Frozen Throne"
	default:
		return "Unknown"
	}
}

// VersionLabel renders an info record format version for output.
//
// Known versions are described by their expansion requirement; anything else
// is passed through as the literal number.
func VersionLabel(version uint32) string {
	switch FormatForVersion(version) {
	case FormatReignOfChaos:
		return "expansion not required"
	case FormatFrozenThrone:
		return "expansion required"
	default:
		return strconv.FormatUint(uint64(version), 10)
	}
}
