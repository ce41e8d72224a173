// Package container validates the Warcraft III map container and decodes its
// fixed-offset header.
//
// The header layout is:
//
//	offset 0  "HM3W" magic
//	offset 4  4 unused bytes
//	offset 8  zero-terminated UTF-8 map name
//	          4 bytes of feature flags
//	          4 bytes little-endian max players
//
// The embedded archive follows the header and is not read by this package.
package container

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/kostich/kraftver/internal/binary"
	"github.com/kostich/kraftver/internal/types"
)

// Magic is the signature every map container starts with.
const Magic = "HM3W"

const nameOffset = 8

// IsValid reports whether the first four bytes of r are the container magic.
//
// Non-UTF-8 or short input is simply not valid; it is never an error.
func IsValid(r io.ReaderAt, size int64) bool {
	if size < int64(len(Magic)) {
		return false
	}

	magic := make([]byte, len(Magic))
	if _, err := r.ReadAt(magic, 0); err != nil && !errors.Is(err, io.EOF) {
		return false
	}

	return utf8.Valid(magic) && string(magic) == Magic
}

// DecodeHeader reads the container header.
//
// Any truncation before the terminator or the trailing fields fails with
// types.ErrMalformedHeader.
func DecodeHeader(r io.ReaderAt, size int64, path string) (types.Header, error) {
	sr := binary.NewSafeReader(r, size, path)
	cr := binary.NewChainReader(binary.NewReader(sr, nameOffset))

	name := cr.CString("map name")
	flags := cr.Bytes(4, "map flags")
	players := binary.ReadChained[uint32](cr, "max players")

	if err := cr.Error(); err != nil {
		return types.Header{}, &types.DecodeError{
			Kind:   types.ErrMalformedHeader,
			Path:   path,
			Stage:  "container",
			Offset: cr.ErrorOffset(),
			Reason: "header truncated",
			Err:    err,
		}
	}

	if !utf8.Valid(name) {
		return types.Header{}, &types.DecodeError{
			Kind:   types.ErrMalformedHeader,
			Path:   path,
			Stage:  "container",
			Offset: nameOffset,
			Reason: fmt.Sprintf("map name is not valid UTF-8: % x", name),
		}
	}

	return types.Header{
		Name:       string(name),
		Flags:      binary.BitString(flags),
		MaxPlayers: players,
	}, nil
}
