package epub

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// NCXMediaType marks the EPUB 2 navigation control document in the manifest.
const NCXMediaType = "application/x-dtbncx+xml"

// opfPackage represents the OPF XML structure
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	Title    []string `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creator  []string `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Language []string `xml:"http://purl.org/dc/elements/1.1/ language"`
}

type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// ParseOPF parses an OPF file content and returns the OPF structure.
// opfDir is the directory containing the OPF file (e.g. "OEBPS"); it is
// recorded on the result, manifest hrefs are left OPF-relative.
func ParseOPF(content []byte, opfDir string) (*OPF, error) {
	var pkg opfPackage
	if err := xml.Unmarshal(content, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse OPF XML: %w", err)
	}

	opf := &OPF{
		Manifest: make(map[string]ManifestItem),
		Dir:      opfDir,
		TocID:    pkg.Spine.Toc,
	}

	if len(pkg.Metadata.Title) > 0 {
		opf.Metadata.Title = pkg.Metadata.Title[0]
	}
	if len(pkg.Metadata.Language) > 0 {
		opf.Metadata.Language = pkg.Metadata.Language[0]
	}
	for _, c := range pkg.Metadata.Creator {
		if c = strings.TrimSpace(c); c != "" {
			opf.Metadata.Creators = append(opf.Metadata.Creators, c)
		}
	}

	for _, item := range pkg.Manifest.Items {
		manifestItem := ManifestItem{
			ID:        item.ID,
			Href:      item.Href,
			MediaType: item.MediaType,
		}

		// Parse properties (space-separated)
		if item.Properties != "" {
			manifestItem.Properties = strings.Fields(item.Properties)
		}

		opf.Manifest[item.ID] = manifestItem
	}

	for _, itemRef := range pkg.Spine.ItemRefs {
		opf.Spine = append(opf.Spine, itemRef.IDRef)
	}

	return opf, nil
}

// FullPath resolves an OPF-relative href to a path inside the EPUB.
func (opf *OPF) FullPath(href string) string {
	if opf.Dir == "" || opf.Dir == "." {
		return href
	}
	return path.Join(opf.Dir, href)
}

// FindNAV returns the manifest item flagged as the EPUB 3 navigation
// document (a "nav" token in its properties attribute).
func (opf *OPF) FindNAV() (ManifestItem, bool) {
	for _, item := range opf.Manifest {
		for _, prop := range item.Properties {
			if prop == "nav" {
				return item, true
			}
		}
	}
	return ManifestItem{}, false
}

// FindNCX returns the manifest item holding the EPUB 2 navigation control
// document, preferring the spine toc attribute over a media-type scan.
func (opf *OPF) FindNCX() (ManifestItem, bool) {
	if opf.TocID != "" {
		if item, ok := opf.Manifest[opf.TocID]; ok {
			return item, true
		}
	}
	for _, item := range opf.Manifest {
		if item.MediaType == NCXMediaType {
			return item, true
		}
	}
	return ManifestItem{}, false
}
