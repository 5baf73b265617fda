// Debug program for the EPUB ZIP reader.
//
// Usage:
//
//	go run ./cmd/test/epub_reader/main.go <epub-file> (<content-filename> ...)
//
// This program exercises:
// - Opening EPUB files (ZIP archive)
// - Locating the OPF package document (container.xml and fallbacks)
// - Listing all files in the EPUB
// - Reading file contents
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/yuanying/epubsplit/internal/epub"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/test/epub_reader/main.go <epub-file> (<content-filename> ...)")
		os.Exit(1)
	}

	epubPath := os.Args[1]
	filePaths := os.Args[2:]

	fmt.Printf("Opening EPUB file: %s\n", epubPath)
	reader, err := epub.Open(epubPath)
	if err != nil {
		log.Fatalf("Failed to open EPUB: %v", err)
	}
	defer reader.Close()

	fmt.Printf("✓ EPUB opened successfully\n")
	fmt.Printf("OPF Path: %s\n\n", reader.OPFPath())

	files := reader.Files()
	fmt.Printf("Total files: %d\n", len(files))
	fmt.Println("\nFile list:")
	for name := range files {
		fmt.Printf("  - %s\n", name)
	}

	for _, p := range filePaths {
		fmt.Printf("\nReading %s:\n", p)
		data, err := reader.ReadFile(p)
		if err != nil {
			fmt.Printf("  error: %v\n", err)
			continue
		}
		fmt.Printf("  %d bytes\n", len(data))
	}
}
