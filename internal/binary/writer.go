// Package binary provides type-safe binary writing primitives with offset tracking.
package binary

import (
	"encoding/binary"
	"io"
	"math"
)

// SafeWriter wraps io.Writer with position tracking.
//
// It is used to assemble container, info and terrain fixtures byte for byte.
type SafeWriter struct {
	w      io.Writer
	offset int64
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{w: w}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// WriteCString writes s followed by a zero terminator.
func (sw *SafeWriter) WriteCString(s string) error {
	return sw.WriteBytes(append([]byte(s), 0))
}

// WriteFloat32 writes an IEEE 754 float in little-endian byte order.
func (sw *SafeWriter) WriteFloat32(f float32) error {
	return WriteLE(sw, math.Float32bits(f))
}

// WriteLE writes a value of type T in little-endian byte order.
func WriteLE[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T) error {
	buf := make([]byte, sizeOf[T]())
	switch len(buf) {
	case 1:
		buf[0] = byte(val)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(val))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(val))
	default:
		binary.LittleEndian.PutUint64(buf, uint64(val))
	}
	return sw.WriteBytes(buf)
}
