package outline

import (
	"sort"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/pdfsource"
)

// Stats is an immutable snapshot of document-wide layout statistics.
// It is computed once, before any per-block classification, so that the
// percentile thresholds the classifier reads can never be skewed by
// blocks it has already labeled.
type Stats struct {
	fontSizes     []float64 // sorted ascending, fonts below MinFontSize excluded
	medianLineGap float64
	blockCount    int
}

// CollectStats makes a single pass over the document's blocks and returns
// the statistics snapshot. Pure function of its inputs.
func CollectStats(blocks []pdfsource.TextBlock, cfg config.ExtractionConfig) Stats {
	sizes := make([]float64, 0, len(blocks))
	for _, b := range blocks {
		if b.FontSize >= cfg.MinFontSize {
			sizes = append(sizes, b.FontSize)
		}
	}
	sort.Float64s(sizes)

	return Stats{
		fontSizes:     sizes,
		medianLineGap: medianGap(blocks),
		blockCount:    len(blocks),
	}
}

// FontRank returns the percentile of size within the document's font-size
// distribution, in [0, 1]. Equal sizes share a midpoint rank so that a
// document set entirely in one font ranks everything at 0.5.
func (s Stats) FontRank(size float64) float64 {
	n := len(s.fontSizes)
	if n == 0 {
		return 0
	}

	below := sort.SearchFloat64s(s.fontSizes, size)
	above := sort.SearchFloat64s(s.fontSizes, size+1e-9)
	equal := above - below

	return (float64(below) + float64(equal)/2) / float64(n)
}

// MedianLineGap is the median vertical gap between consecutive blocks on
// the same page.
func (s Stats) MedianLineGap() float64 {
	return s.medianLineGap
}

// BlockCount is the number of blocks the snapshot was computed over.
func (s Stats) BlockCount() int {
	return s.blockCount
}

func medianGap(blocks []pdfsource.TextBlock) float64 {
	var gaps []float64
	for i := 1; i < len(blocks); i++ {
		prev, cur := blocks[i-1], blocks[i]
		if prev.Page != cur.Page {
			continue
		}
		gap := cur.BBox.Y0 - prev.BBox.Y1
		if gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) == 0 {
		return 0
	}
	sort.Float64s(gaps)
	return gaps[len(gaps)/2]
}
