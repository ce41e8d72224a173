package kraftver

import (
	"github.com/kostich/kraftver/internal/types"
)

// ErrorKind is an alias to types.ErrorKind.
// Re-exporting from internal/types to maintain public API.
type ErrorKind = types.ErrorKind

// DecodeError is an alias to types.DecodeError.
// Every failure of Open carries one; match it with errors.As or match its
// kind with errors.Is.
type DecodeError = types.DecodeError

// OutOfBoundsError is an alias to types.OutOfBoundsError.
type OutOfBoundsError = types.OutOfBoundsError

// Warning is an alias to types.Warning.
type Warning = types.Warning

// Failure kinds, usable with errors.Is.
const (
	ErrNotRecognized        = types.ErrNotRecognized
	ErrMalformedHeader      = types.ErrMalformedHeader
	ErrExtractionFailed     = types.ErrExtractionFailed
	ErrExtractionIncomplete = types.ErrExtractionIncomplete
	ErrNoValidCatalog       = types.ErrNoValidCatalog
	ErrInvalidTerrainFile   = types.ErrInvalidTerrainFile
	ErrInvalidStringTable   = types.ErrInvalidStringTable
	ErrMalformedInfoRecord  = types.ErrMalformedInfoRecord
	ErrStringLookupMiss     = types.ErrStringLookupMiss
)
