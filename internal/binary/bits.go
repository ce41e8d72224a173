package binary

import (
	"fmt"
	"strings"
)

// BitString renders b as binary digits, 8 per byte, most significant bit
// first, bytes in the order given.
//
//	BitString([]byte{0x05, 0x80}) == "0000010110000000"
func BitString(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 8)
	for _, c := range b {
		fmt.Fprintf(&sb, "%08b", c)
	}
	return sb.String()
}
