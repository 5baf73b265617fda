package epub

// OPF represents the parsed Open Package Format document
type OPF struct {
	Metadata Metadata
	Manifest map[string]ManifestItem // id -> item
	Spine    []string                // idrefs in reading order
	Dir      string                  // directory of the OPF inside the EPUB ("" for root)
	TocID    string                  // spine toc attribute (NCX manifest id, EPUB 2)
}

// Metadata represents the metadata section of the OPF
type Metadata struct {
	Title    string
	Creators []string
	Language string
}

// ManifestItem represents an item in the manifest.
// Href is kept as written in the OPF, relative to the OPF directory;
// TOC href resolution and content loading both work in that path space.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string
}

// NavPoint represents a single navigation point in a table of contents
// source. For NCX sources Children may nest arbitrarily deep; NAV
// sources produce a flat list.
type NavPoint struct {
	ID        string
	PlayOrder int
	Label     string
	Href      string // fragment-free, relative to the OPF directory
	Fragment  string // fragment identifier (without #)
	Children  []NavPoint
}
