// Package wts decodes the map string table (war3map.wts).
//
// The table is line oriented:
//
//	STRING 1
//	// optional comment
//	{
//	value line one
//	value line two
//	}
//
// Entries are keyed "TRIGSTR_" plus the index zero-padded to three digits, the
// form used by references in other map files.
package wts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kostich/kraftver/internal/types"
)

const (
	marker    = "STRING"
	keyPrefix = "TRIGSTR_"
	stage     = "strings"

	maxLine = 16 << 20
)

// Table maps TRIGSTR keys to their text.
type Table struct {
	entries  map[string]string
	Warnings []types.Warning
}

// Key formats a string index the way references spell it.
func Key(index int) string {
	return fmt.Sprintf("%s%03d", keyPrefix, index)
}

// IsReference reports whether s refers into the string table.
func IsReference(s string) bool {
	return strings.Contains(s, "TRIGSTR")
}

// Lookup returns the text stored under key.
func (t *Table) Lookup(key string) (string, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Decode reads the string table at path.
func Decode(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.DecodeError{Kind: types.ErrInvalidStringTable, Path: path, Stage: stage, Reason: "cannot open string table", Err: err}
	}
	defer f.Close()

	return DecodeReader(f, path)
}

type scanState int

const (
	stateIdle scanState = iota
	stateExpectOpen
	stateInBlock
)

// DecodeReader parses a string table in a single forward scan.
//
// The first line must contain the STRING marker. Entries whose header is not
// followed by an opening brace are skipped. A block still open at the end of
// the input keeps the lines read so far and adds a warning.
func DecodeReader(r io.Reader, path string) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	t := &Table{entries: make(map[string]string)}

	var (
		state        = stateIdle
		key          string
		value        []string
		allowComment bool
		lineNo       int
	)

	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		lineNo++

		if lineNo == 1 && !strings.Contains(line, marker) {
			return nil, &types.DecodeError{Kind: types.ErrInvalidStringTable, Path: path, Stage: stage,
				Reason: "first line does not contain " + marker}
		}

		switch state {
		case stateInBlock:
			if strings.TrimSpace(line) == "}" {
				t.entries[key] = strings.Join(value, "\n")
				state = stateIdle
				continue
			}
			value = append(value, line)
			continue

		case stateExpectOpen:
			if allowComment && strings.HasPrefix(line, "// ") {
				allowComment = false
				continue
			}
			if strings.TrimSpace(line) == "{" {
				state = stateInBlock
				value = value[:0]
				continue
			}
			// No block: drop the entry and treat the line afresh.
			state = stateIdle
		}

		if k, ok := entryKey(line); ok {
			key = k
			state = stateExpectOpen
			allowComment = true
		}
	}

	if err := sc.Err(); err != nil {
		return nil, &types.DecodeError{Kind: types.ErrInvalidStringTable, Path: path, Stage: stage,
			Reason: fmt.Sprintf("read failed after line %d", lineNo), Err: err}
	}
	if lineNo == 0 {
		return nil, &types.DecodeError{Kind: types.ErrInvalidStringTable, Path: path, Stage: stage, Reason: "string table is empty"}
	}

	if state == stateInBlock {
		t.entries[key] = strings.Join(value, "\n")
		t.Warnings = append(t.Warnings, types.Warning{
			Stage:   stage,
			Message: fmt.Sprintf("%s is not terminated before end of file", key),
		})
	}

	return t, nil
}

// entryKey parses "STRING <n>" headers.
func entryKey(line string) (string, bool) {
	i := strings.Index(line, marker)
	if i < 0 {
		return "", false
	}

	fields := strings.Fields(line[i+len(marker):])
	if len(fields) == 0 {
		return "", false
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return "", false
	}
	return Key(n), true
}
