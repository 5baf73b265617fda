package splitter

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/yuanying/epubsplit/internal/epub"
)

// Entry is one table-of-contents link resolved to a reading-order
// position and annotated with classification flags.
type Entry struct {
	Title      string
	Href       string // fragment-free, relative to the OPF directory
	ID         string // manifest id the href resolved to
	SpineIndex int
	PlayOrder  int // NCX playOrder; 0 for NAV-sourced entries

	FrontBack bool
	Numbered  bool
	Part      bool
}

// spineIndex maps manifest hrefs and ids to reading-order positions.
type spineIndex struct {
	hrefToID map[string]string
	position map[string]int
}

func newSpineIndex(opf *epub.OPF) *spineIndex {
	idx := &spineIndex{
		hrefToID: make(map[string]string, len(opf.Manifest)),
		position: make(map[string]int, len(opf.Spine)),
	}
	for id, item := range opf.Manifest {
		idx.hrefToID[item.Href] = id
	}
	for i, idref := range opf.Spine {
		if _, ok := idx.position[idref]; !ok {
			idx.position[idref] = i
		}
	}
	return idx
}

// resolveID resolves a TOC href to a manifest id. Exact match first, then
// two fallback transforms tolerating manifests with a different relative
// base: prefixing a conventional directory, and stripping the first path
// segment. Order matters; the first hit wins.
func (idx *spineIndex) resolveID(href, dirPrefix string) (string, bool) {
	if id, ok := idx.hrefToID[href]; ok {
		return id, true
	}
	if id, ok := idx.hrefToID[dirPrefix+"/"+href]; ok {
		return id, true
	}
	stripped := href
	if i := strings.Index(href, "/"); i >= 0 {
		stripped = href[i+1:]
	}
	if id, ok := idx.hrefToID[stripped]; ok {
		return id, true
	}
	return "", false
}

// loadEntries produces the ordered TOC entry list for the book. The EPUB 3
// navigation document is tried first; the EPUB 2 NCX only when the NAV
// yielded zero entries. Links that resolve to no manifest id, or to an id
// absent from the spine, are silently dropped. The result is sorted by
// (playOrder, spine position) ascending.
func loadEntries(r *epub.Reader, opf *epub.OPF, logger *slog.Logger) []Entry {
	idx := newSpineIndex(opf)

	entries := navEntries(r, opf, idx, logger)
	if len(entries) == 0 {
		entries = ncxEntries(r, opf, idx, logger)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].PlayOrder != entries[j].PlayOrder {
			return entries[i].PlayOrder < entries[j].PlayOrder
		}
		return entries[i].SpineIndex < entries[j].SpineIndex
	})

	return entries
}

// navEntries reads the EPUB 3 navigation document, if the manifest
// declares one. NAV links commonly live under an "xhtml/" directory the
// manifest spells differently, hence that fallback prefix.
func navEntries(r *epub.Reader, opf *epub.OPF, idx *spineIndex, logger *slog.Logger) []Entry {
	item, ok := opf.FindNAV()
	if !ok {
		return nil
	}

	content, err := r.ReadFile(opf.FullPath(item.Href))
	if err != nil {
		logger.Debug("nav document unreadable", "path", item.Href, "error", err)
		return nil
	}

	points, err := epub.ParseNAV(content)
	if err != nil {
		logger.Debug("nav document unparseable", "path", item.Href, "error", err)
		return nil
	}

	return resolvePoints(points, idx, "xhtml", logger)
}

// ncxEntries reads the EPUB 2 navigation control document. Nested
// navPoints (Part → chapters) are flattened into one list; playOrder is
// kept for final ordering.
func ncxEntries(r *epub.Reader, opf *epub.OPF, idx *spineIndex, logger *slog.Logger) []Entry {
	item, ok := opf.FindNCX()
	if !ok {
		return nil
	}

	content, err := r.ReadFile(opf.FullPath(item.Href))
	if err != nil {
		logger.Debug("ncx document unreadable", "path", item.Href, "error", err)
		return nil
	}

	points, err := epub.ParseNCX(content)
	if err != nil {
		logger.Debug("ncx document unparseable", "path", item.Href, "error", err)
		return nil
	}

	return resolvePoints(flattenPoints(points), idx, "text", logger)
}

// flattenPoints flattens a NavPoint tree depth-first, parents before
// children, so nested chapters become top-level entries.
func flattenPoints(points []epub.NavPoint) []epub.NavPoint {
	var flat []epub.NavPoint
	for _, np := range points {
		flat = append(flat, np)
		if len(np.Children) > 0 {
			flat = append(flat, flattenPoints(np.Children)...)
		}
	}
	return flat
}

// resolvePoints maps nav points to spine-resolved entries, dropping those
// whose href cannot be matched to the manifest or the reading order.
func resolvePoints(points []epub.NavPoint, idx *spineIndex, dirPrefix string, logger *slog.Logger) []Entry {
	var entries []Entry
	for _, np := range points {
		if np.Href == "" {
			continue
		}
		id, ok := idx.resolveID(np.Href, dirPrefix)
		if !ok {
			logger.Debug("toc link has no manifest item", "href", np.Href, "title", np.Label)
			continue
		}
		pos, ok := idx.position[id]
		if !ok {
			logger.Debug("toc link target not in spine", "id", id, "title", np.Label)
			continue
		}
		entries = append(entries, Entry{
			Title:      np.Label,
			Href:       np.Href,
			ID:         id,
			SpineIndex: pos,
			PlayOrder:  np.PlayOrder,
		})
	}
	return entries
}
