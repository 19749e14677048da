package outline

import (
	"context"
	"strings"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/pdfsource"
)

// Extractor runs the outline stage: statistics snapshot, feature pass,
// classification, hierarchy assembly. It holds no per-document state, so
// one Extractor may serve many documents concurrently.
type Extractor struct {
	cfg        config.ExtractionConfig
	classifier *Classifier
}

// NewExtractor builds an outline extractor with the given thresholds.
func NewExtractor(cfg config.ExtractionConfig) *Extractor {
	return &Extractor{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
	}
}

// Extract turns a document's text blocks into an Outline. When ctx
// expires mid-run the outline assembled from the blocks processed so far
// is returned with Degraded set, never an error: a partial outline is a
// usable degraded result.
func (e *Extractor) Extract(ctx context.Context, blocks []pdfsource.TextBlock) Outline {
	if len(blocks) == 0 {
		return Outline{}
	}

	stats := CollectStats(blocks, e.cfg)

	feats, err := ComputeFeatures(ctx, blocks, stats, e.cfg)
	degraded := err != nil

	titleIdx := -1
	if !degraded {
		titleIdx = ClassifyTitle(blocks, feats, e.cfg)
	}

	// Classification and assembly are strictly sequential over reading
	// order; the repair rule depends on what has come before.
	labeled := make([]Labeled, 0, len(blocks))
	for i, b := range blocks {
		if degraded {
			break
		}
		if i == titleIdx {
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			degraded = true
			break
		}
		labeled = append(labeled, Labeled{
			Level: e.classifier.Classify(feats[i]),
			Text:  strings.TrimSpace(b.Text),
			Page:  b.Page,
			Order: b.Order,
		})
	}

	out := Outline{
		Headings: Assemble(labeled, e.cfg.MergePageWindow),
		Degraded: degraded,
	}

	if titleIdx >= 0 {
		out.HasTitle = true
		out.Title = strings.TrimSpace(blocks[titleIdx].Text)
		out.TitlePage = blocks[titleIdx].Page
		out.TitleOrder = blocks[titleIdx].Order
	}

	return out
}
