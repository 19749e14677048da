package outline

import (
	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/pdfsource"
)

// Rule is one predicate→label entry in the classification policy. Rules
// are evaluated top to bottom and the first match wins, which keeps the
// policy data-like and testable rule by rule.
type Rule struct {
	Name  string
	Match func(f Features, cfg config.ExtractionConfig) bool
	Level Level
}

// DefaultRules returns the heading classification policy.
//
// Ordering encodes two commitments: gates that reject non-heading text
// come first, and every numbering predicate precedes every font
// predicate, because an explicit numbering prefix is a stronger,
// language-agnostic signal than font metrics. A bold "1.1" block set in
// title-sized type still classifies H2.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "margin-band",
			Match: func(f Features, cfg config.ExtractionConfig) bool {
				return f.InMarginBand
			},
			Level: Body,
		},
		{
			Name: "length-gate",
			Match: func(f Features, cfg config.ExtractionConfig) bool {
				return f.CharLen < 3 || f.CharLen > 150
			},
			Level: Body,
		},
		{
			Name: "sentence-gate",
			Match: func(f Features, cfg config.ExtractionConfig) bool {
				return f.EndsSentence
			},
			Level: Body,
		},
		{
			Name: "h1-numbered",
			Match: func(f Features, cfg config.ExtractionConfig) bool {
				return f.Numbering == NumberDecimal && f.NumberingDepth == 1
			},
			Level: H1,
		},
		{
			Name: "h2-numbered",
			Match: func(f Features, cfg config.ExtractionConfig) bool {
				return f.Numbering == NumberDecimal && f.NumberingDepth == 2
			},
			Level: H2,
		},
		{
			Name: "h3-numbered",
			Match: func(f Features, cfg config.ExtractionConfig) bool {
				if f.Numbering == NumberDecimal && f.NumberingDepth >= 3 {
					return true
				}
				return f.Numbering == NumberRoman || f.Numbering == NumberAlpha
			},
			Level: H3,
		},
		{
			Name: "h1-font",
			Match: func(f Features, cfg config.ExtractionConfig) bool {
				return f.Bold && f.FontRank >= cfg.H1Percentile
			},
			Level: H1,
		},
		{
			Name: "h2-font",
			Match: func(f Features, cfg config.ExtractionConfig) bool {
				return f.Bold && f.FontRank >= cfg.H2Percentile
			},
			Level: H2,
		},
		{
			Name: "h3-short-bold",
			Match: func(f Features, cfg config.ExtractionConfig) bool {
				return f.Bold &&
					f.CharLen <= cfg.ShortTextMaxChars &&
					f.GapAbove >= cfg.MinGapAbove
			},
			Level: H3,
		},
	}
}

// Classifier maps feature vectors to structural labels using an ordered
// rule table.
type Classifier struct {
	rules []Rule
	cfg   config.ExtractionConfig
}

// NewClassifier builds a classifier with the default policy and the given
// thresholds.
func NewClassifier(cfg config.ExtractionConfig) *Classifier {
	return &Classifier{rules: DefaultRules(), cfg: cfg}
}

// Classify returns the structural label for one feature vector. Blocks
// matching no rule are Body.
func (c *Classifier) Classify(f Features) Level {
	for _, rule := range c.rules {
		if rule.Match(f, c.cfg) {
			return rule.Level
		}
	}
	return Body
}

// ClassifyTitle picks the document title block, or -1 when none
// qualifies. The title is the single highest-ranked block on the first
// page outside the header/footer band, provided its rank clears the title
// percentile. Percentile ranks are coarse in short documents, so the
// fallback is the first such block exceeding an absolute font size. A
// document never has more than one title.
func ClassifyTitle(blocks []pdfsource.TextBlock, feats []Features, cfg config.ExtractionConfig) int {
	best := -1
	for i, b := range blocks {
		if b.Page != 0 {
			break
		}
		f := feats[i]
		if f.InMarginBand || f.CharLen < 3 || f.CharLen > 150 {
			continue
		}
		if best == -1 || f.FontRank > feats[best].FontRank {
			best = i
		}
	}

	if best >= 0 && feats[best].FontRank >= cfg.TitlePercentile {
		return best
	}

	// Fallback: first first-page block in title-grade type.
	for i, b := range blocks {
		if b.Page != 0 {
			break
		}
		f := feats[i]
		if f.InMarginBand || f.CharLen < 3 || f.CharLen > 150 {
			continue
		}
		if b.FontSize >= cfg.TitleFallbackSize {
			return i
		}
	}

	return -1
}
