package splitter

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/yuanying/epubsplit/internal/epub"
)

// fiveLinkBook is a NAV book whose TOC mixes three numbered chapters
// with front and back matter.
func fiveLinkBook(t *testing.T) string {
	t.Helper()

	opfXML := `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Five Links</dc:title>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="intro" href="intro.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch3" href="ch3.xhtml" media-type="application/xhtml+xml"/>
    <item id="index" href="index.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="intro"/>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
    <itemref idref="ch3"/>
    <itemref idref="index"/>
  </spine>
</package>`

	navXML := `<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body>
<nav epub:type="toc">
  <ol>
    <li><a href="intro.xhtml">Introduction</a></li>
    <li><a href="ch1.xhtml">Chapter 1</a></li>
    <li><a href="ch2.xhtml">Chapter 2</a></li>
    <li><a href="ch3.xhtml">Chapter 3</a></li>
    <li><a href="index.xhtml">Index</a></li>
  </ol>
</nav>
</body>
</html>`

	return writeEPUB(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": fixtureContainer,
		"OEBPS/content.opf":      opfXML,
		"OEBPS/nav.xhtml":        navXML,
		"OEBPS/intro.xhtml":      "<html><body><p>Introductory words, not a chapter.</p></body></html>",
		"OEBPS/ch1.xhtml":        "<html><body><p>Body of the first chapter.</p></body></html>",
		"OEBPS/ch2.xhtml":        "<html><body><p>Body of the second chapter.</p></body></html>",
		"OEBPS/ch3.xhtml":        "<html><body><p>Body of the third chapter.</p></body></html>",
		"OEBPS/index.xhtml":      "<html><body><p>Index entries, not a chapter.</p></body></html>",
	})
}

// Three numbered chapters satisfy auto mode's strict minimum, so the
// introduction and index are excluded entirely.
func TestSplit_AutoStrict(t *testing.T) {
	s := New(Options{
		InputPath:  fiveLinkBook(t),
		Heuristics: Heuristics{MinChapterChars: 10},
	})

	chapters, err := s.Split()
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chapters) != 3 {
		t.Fatalf("Split() returned %d chapters, want 3", len(chapters))
	}

	wantTitles := []string{"Chapter 1", "Chapter 2", "Chapter 3"}
	for i, want := range wantTitles {
		ch := chapters[i]
		if ch.Title != want {
			t.Errorf("chapters[%d].Title = %q, want %q", i, ch.Title, want)
		}
		if ch.Number != i+1 {
			t.Errorf("chapters[%d].Number = %d, want %d", i, ch.Number, i+1)
		}
	}

	if chapters[0].Text != "Body of the first chapter." {
		t.Errorf("chapters[0].Text = %q", chapters[0].Text)
	}
	for _, ch := range chapters {
		if ch.Text == "" {
			t.Errorf("chapter %q has empty text", ch.Title)
		}
		if strings.Contains(ch.Text, "Introductory") || strings.Contains(ch.Text, "Index entries") {
			t.Errorf("chapter %q includes excluded matter: %q", ch.Title, ch.Text)
		}
	}
}

// Loose mode keeps everything that is not front or back matter.
func TestSplit_LooseMode(t *testing.T) {
	s := New(Options{
		InputPath:  fiveLinkBook(t),
		Mode:       ModeLoose,
		Heuristics: Heuristics{MinChapterChars: 10},
	})

	chapters, err := s.Split()
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chapters) != 3 {
		t.Fatalf("Split() returned %d chapters, want 3", len(chapters))
	}
}

// A nested NCX (Part I containing two chapters) flattens into top-level
// entries sequenced by playOrder.
func TestSplit_NestedNCX(t *testing.T) {
	opfXML := `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Nested NCX</dc:title>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="part1" href="part1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="part1"/>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`

	ncxXML := `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="p1" playOrder="1">
      <navLabel><text>Part I</text></navLabel>
      <content src="part1.xhtml"/>
      <navPoint id="c1" playOrder="2">
        <navLabel><text>Chapter 1</text></navLabel>
        <content src="ch1.xhtml"/>
      </navPoint>
      <navPoint id="c2" playOrder="3">
        <navLabel><text>Chapter 2</text></navLabel>
        <content src="ch2.xhtml"/>
      </navPoint>
    </navPoint>
  </navMap>
</ncx>`

	path := writeEPUB(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": fixtureContainer,
		"OEBPS/content.opf":      opfXML,
		"OEBPS/toc.ncx":          ncxXML,
		"OEBPS/part1.xhtml":      "<html><body><p>Part divider page.</p></body></html>",
		"OEBPS/ch1.xhtml":        "<html><body><p>First nested chapter.</p></body></html>",
		"OEBPS/ch2.xhtml":        "<html><body><p>Second nested chapter.</p></body></html>",
	})

	s := New(Options{
		InputPath:  path,
		Mode:       ModeStrict,
		Heuristics: Heuristics{MinChapterChars: 10},
	})

	chapters, err := s.Split()
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("Split() returned %d chapters, want 2", len(chapters))
	}
	if chapters[0].Title != "Chapter 1" || chapters[1].Title != "Chapter 2" {
		t.Errorf("titles = [%q %q], want [Chapter 1 Chapter 2]",
			chapters[0].Title, chapters[1].Title)
	}
	if chapters[0].Text != "First nested chapter." {
		t.Errorf("chapters[0].Text = %q", chapters[0].Text)
	}
}

// Percent-encoded manifest hrefs still resolve when the archive stores
// the literal character.
func TestSplit_PercentEncodedHref(t *testing.T) {
	opfXML := `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Encoded</dc:title>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="ch1" href="ch%211.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
  </spine>
</package>`

	navXML := `<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body><nav epub:type="toc"><ol>
  <li><a href="ch%211.xhtml">Chapter 1</a></li>
</ol></nav></body>
</html>`

	path := writeEPUB(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": fixtureContainer,
		"OEBPS/content.opf":      opfXML,
		"OEBPS/nav.xhtml":        navXML,
		"OEBPS/ch!1.xhtml":       "<html><body><p>Behind the encoded path.</p></body></html>",
	})

	s := New(Options{
		InputPath:  path,
		Mode:       ModeLoose,
		Heuristics: Heuristics{MinChapterChars: 10},
	})

	chapters, err := s.Split()
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("Split() returned %d chapters, want 1", len(chapters))
	}
	if chapters[0].Text != "Behind the encoded path." {
		t.Errorf("chapters[0].Text = %q", chapters[0].Text)
	}
}

// Auto mode refuses to guess when the only candidates are unnumbered
// "Part N" labels.
func TestSplit_AllPartsYieldsNothing(t *testing.T) {
	opfXML := `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Parts Only</dc:title>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="p1" href="p1.xhtml" media-type="application/xhtml+xml"/>
    <item id="p2" href="p2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="p1"/>
    <itemref idref="p2"/>
  </spine>
</package>`

	navXML := `<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body><nav epub:type="toc"><ol>
  <li><a href="p1.xhtml">Part Alpha</a></li>
  <li><a href="p2.xhtml">Part Beta</a></li>
</ol></nav></body>
</html>`

	path := writeEPUB(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": fixtureContainer,
		"OEBPS/content.opf":      opfXML,
		"OEBPS/nav.xhtml":        navXML,
		"OEBPS/p1.xhtml":         "<html><body><p>Part one text.</p></body></html>",
		"OEBPS/p2.xhtml":         "<html><body><p>Part two text.</p></body></html>",
	})

	s := New(Options{
		InputPath:  path,
		Heuristics: Heuristics{MinChapterChars: 10},
	})

	chapters, err := s.Split()
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chapters) != 0 {
		t.Errorf("Split() returned %d chapters, want 0 for unnumbered parts", len(chapters))
	}
}

// A book without any table of contents yields an empty list, not an
// error.
func TestSplit_NoTOC(t *testing.T) {
	opfXML := `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>t</dc:title></metadata>
  <manifest>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
  </spine>
</package>`

	path := writeEPUB(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": fixtureContainer,
		"OEBPS/content.opf":      opfXML,
		"OEBPS/ch1.xhtml":        "<html><body><p>Orphan content.</p></body></html>",
	})

	chapters, err := New(Options{InputPath: path}).Split()
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chapters) != 0 {
		t.Errorf("Split() returned %d chapters, want 0", len(chapters))
	}
}

// Missing package document is one of the two fatal failures.
func TestSplit_NoOPF(t *testing.T) {
	path := writeEPUB(t, map[string]string{
		"mimetype":  "application/epub+zip",
		"OEBPS/a.x": "nothing",
	})

	_, err := New(Options{InputPath: path}).Split()
	if !errors.Is(err, epub.ErrNoOPFFound) {
		t.Fatalf("Split() error = %v, want ErrNoOPFFound", err)
	}
}

func TestSplit_MissingArchive(t *testing.T) {
	_, err := New(Options{InputPath: "/nonexistent/book.epub"}).Split()
	if err == nil {
		t.Fatal("Split() should fail for a missing archive")
	}
}

// Two runs over the same book produce identical chapter lists.
func TestSplit_Idempotent(t *testing.T) {
	path := fiveLinkBook(t)
	opts := Options{InputPath: path, Heuristics: Heuristics{MinChapterChars: 10}}

	first, err := New(opts).Split()
	if err != nil {
		t.Fatalf("first Split() error = %v", err)
	}
	second, err := New(opts).Split()
	if err != nil {
		t.Fatalf("second Split() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Split() is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestEntries(t *testing.T) {
	s := New(Options{InputPath: fiveLinkBook(t)})

	entries, err := s.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("Entries() returned %d, want 5", len(entries))
	}
	if !entries[0].FrontBack {
		t.Errorf("entry %q should be front/back matter", entries[0].Title)
	}
	if !entries[1].Numbered {
		t.Errorf("entry %q should be numbered", entries[1].Title)
	}
	if entries[1].SpineIndex != 1 {
		t.Errorf("entries[1].SpineIndex = %d, want 1", entries[1].SpineIndex)
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Options{InputPath: "x.epub"})
	if s.opts.Mode != ModeAuto {
		t.Errorf("default Mode = %q, want %q", s.opts.Mode, ModeAuto)
	}
	if s.opts.Heuristics.MinChapterChars != DefaultMinChapterChars {
		t.Errorf("default MinChapterChars = %d, want %d",
			s.opts.Heuristics.MinChapterChars, DefaultMinChapterChars)
	}
	if s.opts.Logger == nil {
		t.Error("default Logger should not be nil")
	}

	s = New(Options{InputPath: "x.epub", Heuristics: Heuristics{MinChapterChars: 42}})
	if s.opts.Heuristics.MinChapterChars != 42 {
		t.Errorf("MinChapterChars = %d, want 42", s.opts.Heuristics.MinChapterChars)
	}
	if s.opts.Heuristics.FrontBackWords == nil {
		t.Error("vocabulary should be filled in when only MinChapterChars is set")
	}
}
