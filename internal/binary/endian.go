package binary

import "encoding/binary"

// sizeOf returns the encoded width of T in bytes.
func sizeOf[T uint8 | uint16 | uint32 | uint64]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// ReadLE reads a numeric value of type T at the given offset using little-endian byte order.
//
// Every Warcraft III map structure is little-endian.
//
// Example:
//
//	players, err := binary.ReadLE[uint32](sr, offset, "max players")
func ReadLE[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	var zero T
	buf := make([]byte, sizeOf[T]())
	if err := sr.ReadAt(buf, off, what); err != nil {
		return zero, err
	}

	switch len(buf) {
	case 1:
		return T(buf[0]), nil
	case 2:
		return T(binary.LittleEndian.Uint16(buf)), nil
	case 4:
		return T(binary.LittleEndian.Uint32(buf)), nil
	default:
		return T(binary.LittleEndian.Uint64(buf)), nil
	}
}
