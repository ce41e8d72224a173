// Package fixture builds synthetic map files and extraction listings for tests.
package fixture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kostich/kraftver/internal/binary"
)

// Container returns a map container header followed by filler archive bytes.
func Container(name string, flags [4]byte, players uint32) []byte {
	buf := &bytes.Buffer{}
	sw := binary.NewSafeWriter(buf)
	sw.WriteString("HM3W")
	sw.WriteBytes(make([]byte, 4))
	sw.WriteCString(name)
	sw.WriteBytes(flags[:])
	binary.WriteLE(sw, players)
	sw.WriteBytes(bytes.Repeat([]byte{0xEE}, 64))
	return buf.Bytes()
}

// Info describes a war3map.w3i record.
type Info struct {
	Name, Author, Description, Players string
	Camera                             [4]float32 // left, bottom, right, top
	Complements                        [4]uint32
	FormatVersion                      uint32
	SaveVersion                        uint32
	EditorVersion                      uint32
	Width, Height                      uint32
	Flags                              [4]byte
	Tileset                            byte
}

// DefaultInfo returns a plausible expansion map record.
func DefaultInfo() Info {
	return Info{
		FormatVersion: 25,
		SaveVersion:   7,
		EditorVersion: 6059,
		Name:          "TRIGSTR_001",
		Author:        "TRIGSTR_002",
		Description:   "TRIGSTR_003",
		Players:       "TRIGSTR_004",
		Camera:        [4]float32{-3328, -3584, 3328, 3072},
		Complements:   [4]uint32{6, 6, 4, 8},
		Width:         84,
		Height:        84,
		Flags:         [4]byte{0x00, 0x00, 0x80, 0x15},
		Tileset:       'L',
	}
}

// Bytes encodes the record.
func (i Info) Bytes() []byte {
	buf := &bytes.Buffer{}
	sw := binary.NewSafeWriter(buf)
	binary.WriteLE(sw, i.FormatVersion)
	binary.WriteLE(sw, i.SaveVersion)
	binary.WriteLE(sw, i.EditorVersion)
	for _, s := range []string{i.Name, i.Author, i.Description, i.Players} {
		sw.WriteCString(s)
	}
	for _, f := range i.Camera {
		sw.WriteFloat32(f)
	}
	for range 4 {
		binary.WriteLE(sw, uint32(0xDEADBEEF))
	}
	for _, c := range i.Complements {
		binary.WriteLE(sw, c)
	}
	binary.WriteLE(sw, i.Width)
	binary.WriteLE(sw, i.Height)
	sw.WriteBytes(i.Flags[:])
	binary.WriteLE(sw, uint8(i.Tileset))
	sw.WriteBytes(make([]byte, 16))
	return buf.Bytes()
}

// Terrain returns a war3map.w3e header with the given tileset code.
func Terrain(tileset byte) []byte {
	buf := &bytes.Buffer{}
	sw := binary.NewSafeWriter(buf)
	sw.WriteString("W3E!")
	binary.WriteLE(sw, uint32(11))
	binary.WriteLE(sw, uint8(tileset))
	binary.WriteLE(sw, uint32(1))
	return buf.Bytes()
}

// StringTable renders a war3map.wts file with CRLF line endings.
func StringTable(entries map[int]string) []byte {
	keys := make([]int, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var sb strings.Builder
	sb.WriteString("\ufeff")
	for _, k := range keys {
		fmt.Fprintf(&sb, "STRING %d\r\n{\r\n%s\r\n}\r\n\r\n", k,
			strings.ReplaceAll(entries[k], "\n", "\r\n"))
	}
	return []byte(sb.String())
}

// DefaultStrings resolves the references in DefaultInfo.
func DefaultStrings() map[int]string {
	return map[int]string{
		1: "TestMap",
		2: "Kostich",
		3: "Two players\nfight it out",
		4: "1v1",
	}
}

// File is one member of a synthetic archive.
type File struct {
	Name string // logical path, backslash separated
	Data []byte
}

// MapFiles returns the sub-files of a complete map padded with filler members
// so that the archive reaches total members.
func MapFiles(info Info, table map[int]string, tileset byte, total int) []File {
	files := []File{
		{Name: "war3map.w3e", Data: Terrain(tileset)},
		{Name: "war3map.w3i", Data: info.Bytes()},
		{Name: "war3map.wts", Data: StringTable(table)},
	}
	for i := len(files); i < total; i++ {
		files = append(files, File{
			Name: fmt.Sprintf("Units\\filler%02d.txt", i),
			Data: []byte(fmt.Sprintf("filler %d", i)),
		})
	}
	return files
}

// Listfile renders the catalog for files, one name per line.
func Listfile(files []File) []byte {
	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(f.Name)
		sb.WriteString("\r\n")
	}
	return []byte(sb.String())
}

// Attributes returns bytes shaped like an (attributes) member.
func Attributes(count int) []byte {
	buf := &bytes.Buffer{}
	sw := binary.NewSafeWriter(buf)
	binary.WriteLE(sw, uint32(100))
	binary.WriteLE(sw, uint32(3))
	sw.WriteBytes(make([]byte, count*12))
	return buf.Bytes()
}

// GenericName is the name an extractor gives the i-th member.
func GenericName(i int) string {
	return fmt.Sprintf("File%08d.xxx", i)
}

// Listing describes the raw output of an extraction.
type Listing struct {
	Files      []File
	Catalog    []byte
	Attributes []byte
	// Swap writes the attributes member before the catalog.
	Swap bool
}

// NewListing builds the extraction output for files with a complete catalog.
func NewListing(files []File) Listing {
	return Listing{
		Files:      files,
		Catalog:    Listfile(files),
		Attributes: Attributes(len(files) + 2),
	}
}

// Write materializes the listing into dir using generic member names.
// Members are named in catalog order, followed by the catalog and the
// attributes entry.
func (l Listing) Write(dir string) error {
	for i, f := range l.Files {
		if err := os.WriteFile(filepath.Join(dir, GenericName(i)), f.Data, 0o644); err != nil {
			return err
		}
	}

	catalog, attributes := l.Catalog, l.Attributes
	if l.Swap {
		catalog, attributes = attributes, catalog
	}
	n := len(l.Files)
	if err := os.WriteFile(filepath.Join(dir, GenericName(n)), catalog, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, GenericName(n+1)), attributes, 0o644)
}
