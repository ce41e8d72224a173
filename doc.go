// Package kraftver reads the metadata of Warcraft III map files.
//
// A map file (.w3m for Reign of Chaos, .w3x for The Frozen Throne) is a small
// container header followed by an embedded archive. kraftver reads the header
// directly, unpacks the archive with an external extraction tool, and decodes
// three of its members: the terrain header, the string table and the info
// record.
//
// # Quick Start
//
//	meta, err := kraftver.Open("(4)TwistedMeadows.w3x")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("%s by %s\n", meta.Info.Name, meta.Info.Author)
//	fmt.Printf("%dx%d on %s\n", meta.Info.Width, meta.Info.Height, meta.Info.Tileset.Name)
//
// # Extraction
//
// The archive is unpacked by a command-line tool, MPQExtractor by default.
// Its argument vector may contain the {source} and {dest} placeholders and is
// executed without a shell:
//
//	meta, err := kraftver.Open(path, kraftver.WithExtractor(&kraftver.CommandExtractor{
//		Command: "mpqcli",
//		Args:    []string{"extract", "-o", "{dest}", "{source}"},
//	}))
//
// Each decoding pass works in its own directory under the work root, so
// passes never share state and can run concurrently:
//
//	metas, err := kraftver.OpenMany(ctx, paths, kraftver.WithConcurrency(4))
//
// # Error Handling
//
// kraftver distinguishes between fatal errors and warnings:
//
// Fatal errors stop decoding and are returned as *DecodeError. The failure
// kind is matched with errors.Is:
//
//	if errors.Is(err, kraftver.ErrNotRecognized) {
//		// not a map file, nothing was extracted
//	}
//
// Warnings, such as a catalog that does not cover every member of a
// protected map, are collected in Metadata.Warnings. Use WithStrictParsing
// to turn them into errors or WithIgnoreWarnings to drop them.
package kraftver
