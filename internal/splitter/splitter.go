// Package splitter implements the chapter-boundary resolution engine:
// it locates an EPUB's table of contents, classifies its entries with
// title heuristics, maps surviving entries to contiguous reading-order
// ranges and extracts their plain text.
package splitter

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/yuanying/epubsplit/internal/epub"
)

// Options holds the inputs of one split operation.
type Options struct {
	InputPath  string
	Mode       Mode
	Heuristics Heuristics
	Logger     *slog.Logger
}

// Splitter runs the split pipeline for one EPUB.
type Splitter struct {
	opts Options
}

// New creates a Splitter, filling in defaults for unset options.
func New(opts Options) *Splitter {
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}
	if opts.Heuristics.FrontBackWords == nil {
		h := DefaultHeuristics()
		h.MinChapterChars = orDefault(opts.Heuristics.MinChapterChars)
		opts.Heuristics = h
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Splitter{opts: opts}
}

func orDefault(minChars int) int {
	if minChars > 0 {
		return minChars
	}
	return DefaultMinChapterChars
}

// Split runs the whole pipeline and returns the ordered chapter list.
// An empty result is a legitimate outcome (no TOC, or nothing classified
// as a chapter); the only errors are failing to open the archive or to
// locate its package document.
func (s *Splitter) Split() ([]Chapter, error) {
	reader, opf, err := s.openBook()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	log := s.opts.Logger

	entries := loadEntries(reader, opf, log)
	if len(entries) == 0 {
		log.Info("no table of contents entries found", "path", s.opts.InputPath)
		return nil, nil
	}

	classifyEntries(entries, s.opts.Heuristics)

	starts := selectChapterStarts(entries, s.opts.Mode)
	if len(starts) == 0 {
		log.Info("no chapter candidates after classification",
			"mode", string(s.opts.Mode), "entries", len(entries))
		return nil, nil
	}

	boundaries := resolveBoundaries(starts, entries, len(opf.Spine))

	var chapters []Chapter
	for _, b := range boundaries {
		text := extractRange(reader, opf, b.Start, b.End)
		if text == "" {
			log.Debug("chapter range yielded no text",
				"title", b.Entry.Title, "start", b.Start, "end", b.End)
			continue
		}
		chapters = append(chapters, Chapter{
			Title:      b.Entry.Title,
			Text:       text,
			SpineStart: b.Start,
			SpineEnd:   b.End,
		})
	}

	filtered := filterByLength(chapters, s.opts.Heuristics.MinChapterChars)
	log.Info("split complete",
		"entries", len(entries), "candidates", len(starts),
		"extracted", len(chapters), "kept", len(filtered))

	return filtered, nil
}

// Entries opens the book and returns its classified TOC entries without
// extracting any text. Used by debug tooling to inspect what the
// heuristics make of a book.
func (s *Splitter) Entries() ([]Entry, error) {
	reader, opf, err := s.openBook()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	entries := loadEntries(reader, opf, s.opts.Logger)
	classifyEntries(entries, s.opts.Heuristics)
	return entries, nil
}

// openBook opens the archive and parses its package document. These are
// the only fatal failures of a split.
func (s *Splitter) openBook() (*epub.Reader, *epub.OPF, error) {
	reader, err := epub.Open(s.opts.InputPath)
	if err != nil {
		return nil, nil, err
	}

	opfData, err := reader.ReadFile(reader.OPFPath())
	if err != nil {
		reader.Close()
		return nil, nil, fmt.Errorf("failed to read OPF: %w", err)
	}

	opfDir := filepath.ToSlash(filepath.Dir(reader.OPFPath()))
	opf, err := epub.ParseOPF(opfData, opfDir)
	if err != nil {
		reader.Close()
		return nil, nil, fmt.Errorf("failed to parse OPF: %w", err)
	}

	if opf.Metadata.Title != "" {
		s.opts.Logger.Info("splitting book", "title", opf.Metadata.Title)
	}

	return reader, opf, nil
}
