package splitter

import "sort"

// Chapter is one extracted chapter. Number is assigned only after
// filtering, 1-based in final order.
type Chapter struct {
	Number     int
	Title      string
	Text       string
	SpineStart int // inclusive reading-order position
	SpineEnd   int // exclusive
}

// secondaryMinChars floors the fallback threshold used when no chapter
// reaches the primary minimum.
const secondaryMinChars = 500

// filterByLength drops implausibly short chapters. Chapters of at least
// minChars bytes survive; when none do, a more permissive threshold of
// max(500, median/4) is applied instead, for works with unusually short
// chapters. Survivors are sorted by spine start and renumbered from 1.
func filterByLength(chapters []Chapter, minChars int) []Chapter {
	if len(chapters) == 0 {
		return nil
	}

	var kept []Chapter
	for _, ch := range chapters {
		if len(ch.Text) >= minChars {
			kept = append(kept, ch)
		}
	}

	if len(kept) == 0 {
		threshold := int(medianLength(chapters) / 4)
		if threshold < secondaryMinChars {
			threshold = secondaryMinChars
		}
		for _, ch := range chapters {
			if len(ch.Text) >= threshold {
				kept = append(kept, ch)
			}
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].SpineStart < kept[j].SpineStart
	})
	for i := range kept {
		kept[i].Number = i + 1
	}

	return kept
}

// medianLength returns the median text length; the mean of the two middle
// values for even counts.
func medianLength(chapters []Chapter) float64 {
	lengths := make([]int, len(chapters))
	for i, ch := range chapters {
		lengths[i] = len(ch.Text)
	}
	sort.Ints(lengths)

	n := len(lengths)
	if n%2 == 1 {
		return float64(lengths[n/2])
	}
	return float64(lengths[n/2-1]+lengths[n/2]) / 2
}
