package archive

import (
	"bytes"
	"os"
	"strings"
	"unicode/utf8"
)

// Logical names of the reserved archive members.
const (
	ListfileName   = "(listfile)"
	AttributesName = "(attributes)"
)

// Every valid map lists at least one of these.
var sentinelNames = []string{"war3map.w3e", "war3map.w3i", "war3map.wts"}

// readCatalog returns the lines of path if it is a plain-text listfile naming
// at least one sentinel member.
func readCatalog(path string) ([]string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return nil, false
	}

	lines := catalogLines(data)
	for _, line := range lines {
		for _, s := range sentinelNames {
			if strings.EqualFold(line, s) {
				return lines, true
			}
		}
	}
	return nil, false
}

// catalogLines splits a listfile into logical paths, dropping blank lines.
func catalogLines(data []byte) []string {
	text := strings.TrimPrefix(string(data), "\ufeff")

	var lines []string
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
