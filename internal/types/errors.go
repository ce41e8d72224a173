package types

import "fmt"

// ErrorKind classifies a terminal decoding failure.
//
// Every kind is itself an error, so callers can match a failure with
// errors.Is without inspecting the DecodeError fields:
//
//	if errors.Is(err, types.ErrNotRecognized) {
//		// not a map file
//	}
type ErrorKind int

const (
	// ErrNotRecognized means the container magic check failed.
	ErrNotRecognized ErrorKind = iota + 1
	// ErrMalformedHeader means the container header was truncated or undecodable.
	ErrMalformedHeader
	// ErrExtractionFailed means the extraction facility failed, timed out or produced nothing.
	ErrExtractionFailed
	// ErrExtractionIncomplete means the extraction produced fewer entries than a valid map has.
	ErrExtractionIncomplete
	// ErrNoValidCatalog means neither reserved entry is a usable listfile.
	ErrNoValidCatalog
	// ErrInvalidTerrainFile means the terrain sub-file is missing or has a bad signature.
	ErrInvalidTerrainFile
	// ErrInvalidStringTable means the string table sub-file is missing or unrecognized.
	ErrInvalidStringTable
	// ErrMalformedInfoRecord means the info sub-file was truncated or undecodable.
	ErrMalformedInfoRecord
	// ErrStringLookupMiss means a TRIGSTR reference has no string table entry.
	ErrStringLookupMiss
)

var kindNames = map[ErrorKind]string{
	ErrNotRecognized:        "NotRecognized",
	ErrMalformedHeader:      "MalformedHeader",
	ErrExtractionFailed:     "ExtractionFailed",
	ErrExtractionIncomplete: "ExtractionIncomplete",
	ErrNoValidCatalog:       "NoValidCatalog",
	ErrInvalidTerrainFile:   "InvalidTerrainFile",
	ErrInvalidStringTable:   "InvalidStringTable",
	ErrMalformedInfoRecord:  "MalformedInfoRecord",
	ErrStringLookupMiss:     "StringLookupMiss",
}

// String returns the taxonomy name of the kind.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) Error() string {
	return k.String()
}

// MarshalText renders the kind by name for JSON output.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// DecodeError is the single terminal failure of a decoding pass.
type DecodeError struct {
	Err        error
	Path       string
	Stage      string // "container", "archive", "terrain", "strings", "info"
	Reason     string
	Diagnostic string // stderr of the extraction facility, when relevant
	Offset     int64
	Kind       ErrorKind
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Path, e.Kind, e.Reason)
	if e.Offset > 0 {
		msg = fmt.Sprintf("%s: %s at offset %d: %s", e.Path, e.Kind, e.Offset, e.Reason)
	}
	if e.Diagnostic != "" {
		msg += " (" + e.Diagnostic + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// Warning represents a non-fatal issue encountered during decoding.
//
// Warnings travel alongside a successful result. Examples include:
//   - catalog and attributes entries in reversed order
//   - a catalog that lists fewer files than were extracted (protected maps)
//   - an unterminated string block at the end of the string table
type Warning struct {
	// Stage where the warning occurred
	Stage string `json:"stage"` // "archive", "strings", ...

	// Warning message
	Message string `json:"message"`

	// File offset where the issue occurred (0 if not applicable)
	Offset int64 `json:"offset,omitempty"`
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
