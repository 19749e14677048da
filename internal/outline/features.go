package outline

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/pdfsource"
)

// ComputeFeatures derives one feature vector per block from the immutable
// statistics snapshot. Pages are independent of each other, so they are
// fanned out to a bounded worker pool; the barrier at the end guarantees
// the full vector set is in place before classification starts.
//
// Returns ctx.Err() with the features computed so far when the context
// expires mid-document.
func ComputeFeatures(ctx context.Context, blocks []pdfsource.TextBlock, stats Stats, cfg config.ExtractionConfig) ([]Features, error) {
	feats := make([]Features, len(blocks))
	if len(blocks) == 0 {
		return feats, nil
	}

	// Page -> indices of its blocks, in reading order.
	pages := make(map[int][]int)
	var pageOrder []int
	for i, b := range blocks {
		if _, seen := pages[b.Page]; !seen {
			pageOrder = append(pageOrder, b.Page)
		}
		pages[b.Page] = append(pages[b.Page], i)
	}

	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = 4
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	// Each worker writes only its own page's disjoint index range, so the
	// shared slice needs no lock.
	for _, page := range pageOrder {
		if err := ctx.Err(); err != nil {
			break
		}

		indices := pages[page]
		wg.Add(1)
		sem <- struct{}{}
		go func(indices []int) {
			defer wg.Done()
			defer func() { <-sem }()
			for pos, idx := range indices {
				feats[idx] = blockFeatures(blocks, indices, pos, stats, cfg)
			}
		}(indices)
	}

	wg.Wait()
	return feats, ctx.Err()
}

func blockFeatures(blocks []pdfsource.TextBlock, pageIndices []int, pos int, stats Stats, cfg config.ExtractionConfig) Features {
	b := blocks[pageIndices[pos]]

	gap := b.BBox.Y0 // distance from page top for the first block on a page
	if pos > 0 {
		prev := blocks[pageIndices[pos-1]]
		gap = b.BBox.Y0 - prev.BBox.Y1
		if gap < 0 {
			gap = 0
		}
	}

	numbering, depth := DetectNumbering(b.Text)

	return Features{
		FontRank:       stats.FontRank(b.FontSize),
		Bold:           b.Bold,
		Italic:         b.Italic,
		Numbering:      numbering,
		NumberingDepth: depth,
		GapAbove:       gap,
		CharLen:        utf8.RuneCountInString(b.Text),
		Indent:         int(b.BBox.X0 / 36),
		InMarginBand:   inMarginBand(b, cfg.MarginBand),
		EndsSentence:   endsSentence(b.Text),
	}
}

func inMarginBand(b pdfsource.TextBlock, band float64) bool {
	if b.PageHeight <= 0 || band <= 0 {
		return false
	}
	top := b.PageHeight * band
	bottom := b.PageHeight * (1 - band)
	return b.BBox.Y0 < top || b.BBox.Y0 > bottom
}

// endsSentence flags long lowercase prose ending in a period. Headings
// rarely end mid-sentence; body text wrapped onto its own line often does.
func endsSentence(text string) bool {
	text = strings.TrimSpace(text)
	if !strings.HasSuffix(text, ".") {
		return false
	}
	if len(strings.Fields(text)) <= 5 {
		return false
	}
	return text != strings.ToUpper(text)
}
