package splitter

import (
	"regexp"
	"strings"
)

// DefaultMinChapterChars is the minimum text length, in bytes, for a TOC
// entry to survive the primary length filter.
const DefaultMinChapterChars = 2000

// Heuristics holds the title-classification vocabulary and thresholds.
// It is passed explicitly through the pipeline so the sets can be tuned
// and tested independently of archive parsing.
type Heuristics struct {
	// FrontBackWords are titles (or title prefixes) marking front/back
	// matter: prefaces, indexes, acknowledgments and the like.
	FrontBackWords []string

	// NumberWords are spelled-out English chapter numbers.
	NumberWords map[string]bool

	// MinChapterChars is the primary length-filter threshold in bytes.
	MinChapterChars int
}

// DefaultHeuristics returns the stock English/Spanish vocabulary.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		FrontBackWords: []string{
			"epigraph",
			"introduction",
			"preface",
			"foreword",
			"acknowledgments",
			"acknowledgements",
			"acknowledgment",
			"prologue",
			"epilogue",
			"about the author",
			"about the authors",
			"index",
			"contents",
			"table of contents",
			"cover",
			"title page",
			"copyright",
			"dedication",
			"author's note",
			"author’s note",
			"further reading",
			"notes",
			"endnotes",
			"footnotes",
			"appendix",
			"bibliography",
			"recipe",
			"recipes",
			"discover more",
			"also by",
		},
		NumberWords: map[string]bool{
			"one": true, "two": true, "three": true, "four": true,
			"five": true, "six": true, "seven": true, "eight": true,
			"nine": true, "ten": true, "eleven": true, "twelve": true,
			"thirteen": true, "fourteen": true, "fifteen": true,
			"sixteen": true, "seventeen": true, "eighteen": true,
			"nineteen": true, "twenty": true,
		},
		MinChapterChars: DefaultMinChapterChars,
	}
}

var (
	chapterKeywordRe = regexp.MustCompile(`^(?:chapter|cap[ií]tulo)\s+\w`)
	digitLeadRe      = regexp.MustCompile(`^\d`)
	nonLetterRe      = regexp.MustCompile(`[^a-zA-Z]`)
	romanRe          = regexp.MustCompile(`^[ivxlcdm]+$`)
)

// normalizeTitle lowercases and collapses internal whitespace.
func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// hasChapterKeyword reports whether the normalized title begins with a
// chapter keyword. Such titles are never front/back matter, whatever the
// rest of the title says ("Chapter 1: Appendix of Lies" is a chapter).
func hasChapterKeyword(t string) bool {
	return strings.HasPrefix(t, "chapter") ||
		strings.HasPrefix(t, "capítulo") ||
		strings.HasPrefix(t, "capitulo")
}

// IsFrontBack reports whether the title looks like front/back matter:
// an exact vocabulary match, or the vocabulary word followed by ":",
// a space, or preceded by "the".
func (h Heuristics) IsFrontBack(title string) bool {
	t := normalizeTitle(title)

	if hasChapterKeyword(t) {
		return false
	}

	for _, bad := range h.FrontBackWords {
		if t == bad {
			return true
		}
		if strings.HasPrefix(t, bad+":") || strings.HasPrefix(t, bad+" ") {
			return true
		}
		if strings.HasPrefix(t, "the "+bad) {
			return true
		}
	}

	return false
}

// isRomanToken reports whether a token is a Roman numeral once stripped of
// punctuation. A bare "i" is rejected to avoid the English pronoun.
func isRomanToken(token string) bool {
	core := strings.ToLower(nonLetterRe.ReplaceAllString(token, ""))
	if core == "" || core == "i" {
		return false
	}
	return romanRe.MatchString(core)
}

// IsNumbered reports whether the title looks like a numbered chapter:
// "Chapter 1", "Capítulo Dos", a digit-leading first token ("3. Algo"),
// a Roman-numeral first token ("IV Algo"), or a spelled-out number word
// ("One Algo"). The three keyword-less forms only count when the full
// title is not front/back matter, so "1. Appendix" stays excluded.
func (h Heuristics) IsNumbered(title string) bool {
	t := normalizeTitle(title)

	if chapterKeywordRe.MatchString(t) {
		return true
	}

	tokens := strings.Fields(t)
	if len(tokens) == 0 {
		return false
	}
	first := tokens[0]

	if digitLeadRe.MatchString(first) && !h.IsFrontBack(title) {
		return true
	}

	if isRomanToken(first) && !h.IsFrontBack(title) {
		return true
	}

	if h.NumberWords[strings.TrimRight(first, ":.")] && !h.IsFrontBack(title) {
		return true
	}

	return false
}

// IsPart reports whether the title labels a section part ("Part One",
// "Part 3: ...").
func (h Heuristics) IsPart(title string) bool {
	return strings.HasPrefix(normalizeTitle(title), "part ")
}
