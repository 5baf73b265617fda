package splitter

import "fmt"

// Mode selects the chapter-detection strategy.
type Mode string

const (
	// ModeStrict keeps only entries classified as numbered chapters.
	ModeStrict Mode = "strict"
	// ModeLoose keeps every entry not classified as front/back matter.
	ModeLoose Mode = "loose"
	// ModeAuto uses strict when it finds at least three numbered
	// chapters, loose otherwise; an all-parts result is treated as
	// detection failure.
	ModeAuto Mode = "auto"
)

// autoStrictMinimum is how many numbered entries auto mode requires
// before trusting the strict candidate set.
const autoStrictMinimum = 3

// ParseMode validates a mode string from the CLI.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStrict, ModeLoose, ModeAuto:
		return Mode(s), nil
	case "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("invalid detection mode %q (want strict, loose or auto)", s)
}

// Boundary is a surviving chapter-start entry with its half-open spine
// range [Start, End).
type Boundary struct {
	Entry Entry
	Start int
	End   int
}

// classifyEntries annotates every entry with the three heuristic flags.
func classifyEntries(entries []Entry, h Heuristics) {
	for i := range entries {
		entries[i].FrontBack = h.IsFrontBack(entries[i].Title)
		entries[i].Numbered = h.IsNumbered(entries[i].Title)
		entries[i].Part = h.IsPart(entries[i].Title)
	}
}

// selectChapterStarts picks the entries that count as chapter starts
// under the given mode. In auto mode a non-empty candidate set made up
// entirely of unnumbered "Part N" labels is a detection failure and
// yields nil rather than a guess.
func selectChapterStarts(entries []Entry, mode Mode) []Entry {
	var starts []Entry

	switch mode {
	case ModeStrict:
		for _, e := range entries {
			if e.Numbered {
				starts = append(starts, e)
			}
		}
	case ModeLoose:
		for _, e := range entries {
			if !e.FrontBack {
				starts = append(starts, e)
			}
		}
	default: // auto
		for _, e := range entries {
			if e.Numbered {
				starts = append(starts, e)
			}
		}
		if len(starts) < autoStrictMinimum {
			starts = starts[:0]
			for _, e := range entries {
				if !e.FrontBack {
					starts = append(starts, e)
				}
			}
		}
		if len(starts) > 0 && allUnnumberedParts(starts) {
			return nil
		}
	}

	return starts
}

func allUnnumberedParts(entries []Entry) bool {
	for _, e := range entries {
		if !e.Part || e.Numbered {
			return false
		}
	}
	return true
}

// resolveBoundaries computes each start entry's half-open spine range.
// The end is the smallest spine position, over entries of any
// classification, strictly greater than the start; the sequence length
// when none exists. Duplicate (start, end) ranges keep only their first
// occurrence in entry order.
func resolveBoundaries(starts, all []Entry, spineLen int) []Boundary {
	var boundaries []Boundary
	seen := make(map[[2]int]bool)

	for _, start := range starts {
		end := spineLen
		for _, e := range all {
			if e.SpineIndex > start.SpineIndex && e.SpineIndex < end {
				end = e.SpineIndex
			}
		}

		key := [2]int{start.SpineIndex, end}
		if seen[key] {
			continue
		}
		seen[key] = true

		boundaries = append(boundaries, Boundary{
			Entry: start,
			Start: start.SpineIndex,
			End:   end,
		})
	}

	return boundaries
}
