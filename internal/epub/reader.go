package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Reader provides access to EPUB file contents
type Reader struct {
	zipReader *zip.ReadCloser
	files     map[string]*zip.File
	names     []string // archive entry names in original order
	opfPath   string
}

// container.xml structure
type container struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

var (
	ErrFileNotFound = errors.New("file not found in EPUB")
	ErrNoOPFFound   = errors.New("no OPF package document found in EPUB")
)

// conventional OPF locations tried when container.xml is missing or broken
var opfCandidates = []string{"content.opf", "OEBPS/content.opf"}

// Open opens an EPUB file and locates its OPF package document.
// Location order: container.xml, then conventional candidate paths,
// then the first archive entry with an .opf extension.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open EPUB: %w", err)
	}

	reader := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File),
	}

	// Build file map with normalized paths
	for _, f := range zr.File {
		name := normalizePath(f.Name)
		reader.files[name] = f
		reader.names = append(reader.names, name)
	}

	if err := reader.locateOPF(); err != nil {
		zr.Close()
		return nil, err
	}

	return reader, nil
}

// Close closes the EPUB reader
func (r *Reader) Close() error {
	return r.zipReader.Close()
}

// OPFPath returns the path to the OPF file
func (r *Reader) OPFPath() string {
	return r.opfPath
}

// Files returns a map of all files in the EPUB
func (r *Reader) Files() map[string]*zip.File {
	return r.files
}

// ReadFile reads the contents of a file from the EPUB.
// Returns ErrFileNotFound (wrapped) when the path is not in the archive.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	path = normalizePath(path)
	f, ok := r.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// locateOPF resolves the OPF path, preferring container.xml and falling
// back to conventional paths and finally an extension scan. Failure here
// is the only fatal condition of the whole split.
func (r *Reader) locateOPF() error {
	if p, err := r.opfFromContainer(); err == nil {
		r.opfPath = p
		return nil
	}

	for _, cand := range opfCandidates {
		if _, ok := r.files[cand]; ok {
			r.opfPath = cand
			return nil
		}
	}

	for _, name := range r.names {
		if strings.HasSuffix(strings.ToLower(name), ".opf") {
			r.opfPath = name
			return nil
		}
	}

	return ErrNoOPFFound
}

// opfFromContainer parses META-INF/container.xml and returns the declared
// rootfile path.
func (r *Reader) opfFromContainer() (string, error) {
	content, err := r.ReadFile("META-INF/container.xml")
	if err != nil {
		return "", err
	}

	var c container
	if err := xml.Unmarshal(content, &c); err != nil {
		return "", fmt.Errorf("failed to parse container.xml: %w", err)
	}

	// Prefer the rootfile with the package media type
	for _, rf := range c.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			if rf.FullPath != "" {
				return normalizePath(rf.FullPath), nil
			}
		}
	}

	// If no media-type match, use the first one
	if len(c.Rootfiles.Rootfile) > 0 && c.Rootfiles.Rootfile[0].FullPath != "" {
		return normalizePath(c.Rootfiles.Rootfile[0].FullPath), nil
	}

	return "", errors.New("no rootfile in container.xml")
}

// normalizePath normalizes file paths (removes ./ prefix)
func normalizePath(path string) string {
	path = strings.TrimPrefix(path, "./")
	return path
}
