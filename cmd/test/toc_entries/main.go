// Debug program for TOC entry resolution and title classification.
//
// Usage:
//
//	go run ./cmd/test/toc_entries/main.go <epub-file-path>
//
// This program:
// 1. Opens the specified EPUB file
// 2. Loads TOC entries (NAV document first, NCX fallback)
// 3. Displays each entry's spine position, playOrder and heuristic flags
//
// Handy for checking why a book yields zero chapters in a given mode.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuanying/epubsplit/internal/splitter"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <epub-file-path>\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}

	s := splitter.New(splitter.Options{InputPath: os.Args[1]})

	entries, err := s.Entries()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("TOC entries: %d\n\n", len(entries))
	for _, e := range entries {
		flags := ""
		if e.Numbered {
			flags += " numbered"
		}
		if e.FrontBack {
			flags += " front/back"
		}
		if e.Part {
			flags += " part"
		}
		if flags == "" {
			flags = " -"
		}
		fmt.Printf("  spine=%3d play=%3d%s  %q -> %s\n",
			e.SpineIndex, e.PlayOrder, flags, e.Title, e.Href)
	}
}
