// Package output persists split chapters: one text file per chapter and
// an optional zip bundle, written next to the source EPUB.
package output

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuanying/epubsplit/internal/splitter"
)

// Options controls where and how chapters are written.
type Options struct {
	// EPUBPath is the source file; outputs land in its directory.
	EPUBPath string
	// Bundle also produces <stem>_chapters.zip with all chapter files.
	Bundle bool
}

// Result reports what was written.
type Result struct {
	Dir        string
	Files      []string
	BundlePath string
}

const maxTitleLen = 60

var unsafeRe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// SanitizeTitle turns a chapter title into a filename-safe stem:
// non-[A-Za-z0-9_-] runs become underscores, truncated to 60 characters,
// with "chapter_<n>" as the fallback when nothing survives.
func SanitizeTitle(title string, num int) string {
	safe := unsafeRe.ReplaceAllString(title, "_")
	if len(safe) > maxTitleLen {
		safe = safe[:maxTitleLen]
	}
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return fmt.Sprintf("chapter_%d", num)
	}
	return safe
}

// WriteChapters writes one file per chapter into <stem>_chapters next to
// the EPUB (file content: title line, blank line, text) and optionally a
// zip bundle of the whole directory.
func WriteChapters(chapters []splitter.Chapter, opts Options) (*Result, error) {
	epubPath, err := filepath.Abs(opts.EPUBPath)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(epubPath)
	stem := strings.TrimSuffix(filepath.Base(epubPath), filepath.Ext(epubPath))
	outDir := filepath.Join(baseDir, stem+"_chapters")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &Result{Dir: outDir}

	for _, ch := range chapters {
		name := fmt.Sprintf("%02d_%s.txt", ch.Number, SanitizeTitle(ch.Title, ch.Number))
		path := filepath.Join(outDir, name)
		content := ch.Title + "\n\n" + ch.Text
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write chapter file %s: %w", name, err)
		}
		result.Files = append(result.Files, path)
	}

	if opts.Bundle {
		bundlePath := filepath.Join(baseDir, stem+"_chapters.zip")
		if err := writeBundle(bundlePath, filepath.Base(outDir), result.Files); err != nil {
			return nil, err
		}
		result.BundlePath = bundlePath
	}

	return result, nil
}

// writeBundle zips the chapter files under a single top-level directory.
func writeBundle(bundlePath, dirName string, files []string) error {
	f, err := os.Create(bundlePath)
	if err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	defer w.Close()

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s for bundle: %w", file, err)
		}
		fw, err := w.Create(dirName + "/" + filepath.Base(file))
		if err != nil {
			return fmt.Errorf("failed to add %s to bundle: %w", file, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("failed to write %s to bundle: %w", file, err)
		}
	}

	return nil
}
