package splitter

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/yuanying/epubsplit/internal/epub"
)

// blockSelector matches the block-level elements whose text is kept.
// divs are included on purpose: many EPUBs put paragraph text in plain
// divs and would otherwise come out empty.
const blockSelector = "p, li, blockquote, div"

// extractRange concatenates the text of every spine document in the
// half-open range [start, end), blank-line separated. A document that
// cannot be located or yields no text contributes nothing; that is never
// an error.
func extractRange(r *epub.Reader, opf *epub.OPF, start, end int) string {
	var parts []string
	for i := start; i < end; i++ {
		item, ok := opf.Manifest[opf.Spine[i]]
		if !ok {
			continue
		}
		text := extractDocument(r, opf.Dir, item.Href)
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// extractDocument loads one content document, trying candidate paths in
// order until one reads, and returns its block-level text.
func extractDocument(r *epub.Reader, opfDir, href string) string {
	for _, p := range candidatePaths(opfDir, href) {
		data, err := r.ReadFile(p)
		if err != nil {
			continue
		}
		return documentText(data)
	}
	return ""
}

// candidatePaths returns the ordered, de-duplicated list of archive paths
// to try for a manifest href. Percent-decoded variants tolerate
// manifests and navigation documents that disagree on escaping (%21 vs
// "!"). First match wins, so the order is part of the contract.
func candidatePaths(opfDir, href string) []string {
	var candidates []string

	full := joinRel(opfDir, href)
	candidates = append(candidates, full, strings.TrimPrefix(full, "/"))

	if unq, err := url.PathUnescape(href); err == nil && unq != href {
		fullUnq := joinRel(opfDir, unq)
		candidates = append(candidates, fullUnq, strings.TrimPrefix(fullUnq, "/"))
	}

	if unq, err := url.PathUnescape(full); err == nil && unq != full {
		candidates = append(candidates, unq, strings.TrimPrefix(unq, "/"))
	}

	seen := make(map[string]bool, len(candidates))
	var ordered []string
	for _, p := range candidates {
		if !seen[p] {
			seen[p] = true
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// joinRel joins an OPF directory and an href without cleaning away the
// href when the directory is empty.
func joinRel(dir, href string) string {
	if dir == "" || dir == "." {
		return href
	}
	return dir + "/" + href
}

// documentText parses a content document and extracts visible block-level
// text: script and style subtrees are dropped, then every block element
// under body (or the whole document when there is no body) contributes
// its text, blank-line separated, in document order.
func documentText(data []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	doc.Find("script, style").Remove()

	root := doc.Selection
	if body := doc.Find("body"); body.Length() > 0 {
		root = body
	}

	var blocks []string
	root.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if txt := blockText(s); txt != "" {
			blocks = append(blocks, txt)
		}
	})

	return strings.Join(blocks, "\n\n")
}

// blockText joins an element's text nodes with single spaces and trims,
// so inline markup boundaries never glue words together.
func blockText(s *goquery.Selection) string {
	var parts []string
	for _, n := range s.Nodes {
		collectTextNodes(n, &parts)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func collectTextNodes(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		*parts = append(*parts, n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectTextNodes(c, parts)
	}
}
