// Package binary provides type-safe binary reading primitives with bounds checking
package binary

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/kostich/kraftver/internal/types"
)

// cstringChunk is how many bytes ReadCString requests per round trip.
const cstringChunk = 64

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// ReadAt reads bytes at the given offset with context for error messages.
//
// Reads that would cross the end of the data fail with *types.OutOfBoundsError.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size || off+int64(len(b)) > sr.size {
		return &types.OutOfBoundsError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Length: len(b),
			Size:   sr.size,
		}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			sr.path, what, off, n, len(b))
	}

	return nil
}

// Read reads a little-endian value of type T from the given offset.
// All Warcraft III map structures are little-endian.
func Read[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadLE[T](sr, off, what)
}

// ReadCString reads bytes from off up to, not including, the next zero byte.
//
// The returned length excludes the terminator. If the data ends before a
// terminator is found the result is a *types.OutOfBoundsError.
func (sr *SafeReader) ReadCString(off int64, what string) ([]byte, error) {
	var out []byte
	chunk := make([]byte, cstringChunk)

	for pos := off; ; {
		n := int64(cstringChunk)
		if remaining := sr.size - pos; remaining < n {
			n = remaining
		}
		if n <= 0 {
			// Report the position where the terminator was expected.
			return nil, &types.OutOfBoundsError{Path: sr.path, What: what, Offset: pos, Length: 1, Size: sr.size}
		}

		buf := chunk[:n]
		if err := sr.ReadAt(buf, pos, what); err != nil {
			return nil, err
		}
		if i := bytes.IndexByte(buf, 0); i >= 0 {
			return append(out, buf[:i]...), nil
		}
		out = append(out, buf...)
		pos += n
	}
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*SafeReader
	offset int64
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
	}
}

// ReadValue reads a little-endian numeric value and advances the offset.
func ReadValue[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	val, err := Read[T](r.SafeReader, r.offset, what)
	if err != nil {
		var zero T
		return zero, err
	}

	r.offset += int64(sizeOf[T]())
	return val, nil
}

// ReadFloat32 reads an IEEE 754 little-endian float and advances the offset.
func (r *Reader) ReadFloat32(what string) (float32, error) {
	bits, err := ReadValue[uint32](r, what)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadBytes reads n raw bytes and advances the offset.
func (r *Reader) ReadBytes(n int, what string) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.SafeReader.ReadAt(buf, r.offset, what); err != nil {
		return nil, err
	}

	r.offset += int64(n)
	return buf, nil
}

// ReadCString reads a zero-terminated byte string and advances past the terminator.
func (r *Reader) ReadCString(what string) ([]byte, error) {
	b, err := r.SafeReader.ReadCString(r.offset, what)
	if err != nil {
		return nil, err
	}

	r.offset += int64(len(b)) + 1
	return b, nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err       error
	errOffset int64
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

func (cr *ChainReader) fail(err error) {
	cr.err = err
	cr.errOffset = cr.offset
}

// ReadChained reads a value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	var zero T
	if cr.err != nil {
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.fail(err)
		return zero
	}

	return val
}

// Float32 reads a float, accumulating any error.
func (cr *ChainReader) Float32(what string) float32 {
	if cr.err != nil {
		return 0
	}

	val, err := cr.Reader.ReadFloat32(what)
	if err != nil {
		cr.fail(err)
		return 0
	}

	return val
}

// Bytes reads n raw bytes, accumulating any error.
func (cr *ChainReader) Bytes(n int, what string) []byte {
	if cr.err != nil {
		return nil
	}

	val, err := cr.Reader.ReadBytes(n, what)
	if err != nil {
		cr.fail(err)
		return nil
	}

	return val
}

// CString reads a zero-terminated byte string, accumulating any error.
func (cr *ChainReader) CString(what string) []byte {
	if cr.err != nil {
		return nil
	}

	val, err := cr.Reader.ReadCString(what)
	if err != nil {
		cr.fail(err)
		return nil
	}

	return val
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}

// ErrorOffset returns the offset of the read that failed.
func (cr *ChainReader) ErrorOffset() int64 {
	return cr.errOffset
}
