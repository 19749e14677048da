package outline

import (
	"math"
	"testing"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/pdfsource"
)

func sizedBlocks(sizes ...float64) []pdfsource.TextBlock {
	blocks := make([]pdfsource.TextBlock, len(sizes))
	for i, s := range sizes {
		blocks[i] = pdfsource.TextBlock{Text: "text", FontSize: s, Order: i}
	}
	return blocks
}

func TestFontRank(t *testing.T) {
	cfg := config.Default().Extraction

	tests := []struct {
		name     string
		sizes    []float64
		query    float64
		expected float64
	}{
		{
			// A document set entirely in one font ranks everything at the
			// midpoint, not at 1.0.
			name:     "uniform font",
			sizes:    []float64{12, 12, 12, 12},
			query:    12,
			expected: 0.5,
		},
		{
			name:     "largest of four",
			sizes:    []float64{12, 12, 12, 18},
			query:    18,
			expected: 0.875,
		},
		{
			name:     "common size among four",
			sizes:    []float64{12, 12, 12, 18},
			query:    12,
			expected: 0.375,
		},
		{
			// Sizes below MinFontSize are excluded from the distribution, so
			// tiny footnote fonts cannot dilute the ranks.
			name:     "small fonts excluded",
			sizes:    []float64{6, 12, 24},
			query:    24,
			expected: 0.75,
		},
		{
			name:     "no blocks",
			sizes:    nil,
			query:    12,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := CollectStats(sizedBlocks(tt.sizes...), cfg)
			got := stats.FontRank(tt.query)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("FontRank(%v) = %v, want %v", tt.query, got, tt.expected)
			}
		})
	}
}

func TestFontRankMonotonic(t *testing.T) {
	cfg := config.Default().Extraction
	stats := CollectStats(sizedBlocks(8, 10, 10, 12, 14, 18, 24), cfg)

	prev := -1.0
	for _, size := range []float64{8, 10, 12, 14, 18, 24} {
		rank := stats.FontRank(size)
		if rank <= prev {
			t.Errorf("FontRank(%v) = %v, not greater than rank of previous size (%v)", size, rank, prev)
		}
		if rank < 0 || rank > 1 {
			t.Errorf("FontRank(%v) = %v, outside [0, 1]", size, rank)
		}
		prev = rank
	}
}

func TestMedianLineGap(t *testing.T) {
	cfg := config.Default().Extraction

	blocks := []pdfsource.TextBlock{
		{Text: "a", FontSize: 12, Page: 0, BBox: pdfsource.BBox{Y0: 100, Y1: 112}},
		{Text: "b", FontSize: 12, Page: 0, BBox: pdfsource.BBox{Y0: 116, Y1: 128}}, // gap 4
		{Text: "c", FontSize: 12, Page: 0, BBox: pdfsource.BBox{Y0: 140, Y1: 152}}, // gap 12
		{Text: "d", FontSize: 12, Page: 1, BBox: pdfsource.BBox{Y0: 50, Y1: 62}},   // page break, no gap
		{Text: "e", FontSize: 12, Page: 1, BBox: pdfsource.BBox{Y0: 70, Y1: 82}},   // gap 8
	}

	stats := CollectStats(blocks, cfg)
	if got := stats.MedianLineGap(); got != 8 {
		t.Errorf("MedianLineGap() = %v, want 8", got)
	}
	if got := stats.BlockCount(); got != 5 {
		t.Errorf("BlockCount() = %v, want 5", got)
	}
}
