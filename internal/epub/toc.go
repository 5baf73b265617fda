package epub

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NCX XML structures (EPUB 2 navigation control document)
type ncxDocument struct {
	NavMap ncxNavMap `xml:"navMap"`
}

type ncxNavMap struct {
	NavPoints []ncxNavPoint `xml:"navPoint"`
}

type ncxNavPoint struct {
	ID        string        `xml:"id,attr"`
	PlayOrder string        `xml:"playOrder,attr"`
	Label     ncxNavLabel   `xml:"navLabel"`
	Content   ncxNavContent `xml:"content"`
	Children  []ncxNavPoint `xml:"navPoint"`
}

type ncxNavLabel struct {
	Text string `xml:"text"`
}

type ncxNavContent struct {
	Src string `xml:"src,attr"`
}

// ParseNCX parses an NCX document into a NavPoint tree. Nesting is
// preserved (Part → chapters structures); playOrder defaults to 0 when
// absent or unparseable.
func ParseNCX(content []byte) ([]NavPoint, error) {
	var doc ncxDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse NCX: %w", err)
	}
	return convertNavPoints(doc.NavMap.NavPoints), nil
}

func convertNavPoints(points []ncxNavPoint) []NavPoint {
	var result []NavPoint
	for _, np := range points {
		src := strings.TrimSpace(np.Content.Src)
		if src == "" {
			// A navPoint without a content target cannot mark a
			// boundary, but its children still can.
			result = append(result, convertNavPoints(np.Children)...)
			continue
		}

		href, fragment := splitFragment(src)
		playOrder, _ := strconv.Atoi(np.PlayOrder)

		result = append(result, NavPoint{
			ID:        np.ID,
			PlayOrder: playOrder,
			Label:     strings.TrimSpace(np.Label.Text),
			Href:      href,
			Fragment:  fragment,
			Children:  convertNavPoints(np.Children),
		})
	}
	return result
}

// ParseNAV parses an EPUB 3 navigation document and returns the links of
// its table-of-contents nav block as a flat list. The first nav element
// explicitly typed "toc" is used; if none is typed, the first nav element
// present. Returns an empty list when the document has no usable nav.
func ParseNAV(content []byte) ([]NavPoint, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse NAV document: %w", err)
	}

	nav := findTOCNav(doc)
	if nav == nil {
		return nil, nil
	}

	var points []NavPoint
	nav.Find("a").Each(func(i int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		path, fragment := splitFragment(href)

		points = append(points, NavPoint{
			ID:       "nav-" + strconv.Itoa(i+1),
			Label:    collapseSpace(a.Text()),
			Href:     path,
			Fragment: fragment,
		})
	})

	return points, nil
}

// findTOCNav selects the toc nav block, falling back to the first nav.
func findTOCNav(doc *goquery.Document) *goquery.Selection {
	var toc *goquery.Selection
	doc.Find("nav").EachWithBreak(func(i int, s *goquery.Selection) bool {
		typ := s.AttrOr("epub:type", "")
		for _, token := range strings.Fields(typ) {
			if token == "toc" {
				toc = s
				return false
			}
		}
		return true
	})
	if toc != nil {
		return toc
	}

	navs := doc.Find("nav")
	if navs.Length() > 0 {
		return navs.First()
	}
	return nil
}

// splitFragment splits a source path into the path and fragment identifier.
func splitFragment(src string) (path, fragment string) {
	if src == "" {
		return "", ""
	}
	parts := strings.SplitN(src, "#", 2)
	path = parts[0]
	if len(parts) == 2 {
		fragment = parts[1]
	}
	return path, fragment
}

// collapseSpace trims and collapses internal whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
