// Debug program for the OPF parser.
//
// Usage:
//
//	go run ./cmd/test/opf_parser/main.go <epub-file-path>
//
// This program will:
// - Open the EPUB file
// - Parse the OPF file
// - Display metadata (title, creators, language)
// - List manifest items
// - Show spine order and the NAV/NCX items found
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuanying/epubsplit/internal/epub"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <epub-file-path>\n", os.Args[0])
		os.Exit(1)
	}

	epubPath := os.Args[1]

	reader, err := epub.Open(epubPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening EPUB: %v\n", err)
		os.Exit(1)
	}
	defer reader.Close()

	fmt.Printf("✓ EPUB opened successfully\n")
	fmt.Printf("OPF Path: %s\n\n", reader.OPFPath())

	opfData, err := reader.ReadFile(reader.OPFPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading OPF: %v\n", err)
		os.Exit(1)
	}

	opf, err := epub.ParseOPF(opfData, filepath.ToSlash(filepath.Dir(reader.OPFPath())))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing OPF: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Title:    %s\n", opf.Metadata.Title)
	fmt.Printf("Creators: %v\n", opf.Metadata.Creators)
	fmt.Printf("Language: %s\n\n", opf.Metadata.Language)

	fmt.Printf("Manifest items: %d\n", len(opf.Manifest))
	for id, item := range opf.Manifest {
		fmt.Printf("  %s -> %s (%s)\n", id, item.Href, item.MediaType)
	}

	fmt.Printf("\nSpine (%d items):\n", len(opf.Spine))
	for i, idref := range opf.Spine {
		fmt.Printf("  [%d] %s\n", i, idref)
	}

	if item, ok := opf.FindNAV(); ok {
		fmt.Printf("\nNAV document: %s\n", item.Href)
	} else {
		fmt.Println("\nNAV document: not found")
	}
	if item, ok := opf.FindNCX(); ok {
		fmt.Printf("NCX document: %s\n", item.Href)
	} else {
		fmt.Println("NCX document: not found")
	}
}
