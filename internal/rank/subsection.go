package rank

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/docsift/docsift/internal/outline"
	"github.com/docsift/docsift/internal/section"
)

// Insight is one refined passage from a top-ranked section, with its own
// relevance score against the query.
type Insight struct {
	Document    string
	Parent      outline.HeadingNode
	RefinedText string
	Page        int
	Score       float32
}

// passageMaxChars bounds one passage; passages are sentence groups, so
// this is a soft target rather than a hard cut.
const passageMaxChars = 400

// AnalyzeSubsections refines the top-K ranked sections into passages and
// re-scores each passage against the same persona+job query, yielding
// fine-grained evidence beneath the section-level ranking. Sections
// outside the top K are never analyzed. Insights are sorted by
// descending score within their parent's rank order.
func (r *Ranker) AnalyzeSubsections(ctx context.Context, persona, job string, ranked []RankedSection) ([]Insight, error) {
	topK := r.cfg.TopKSubsections
	if topK <= 0 {
		topK = 5
	}
	if topK > len(ranked) {
		topK = len(ranked)
	}
	if topK == 0 {
		return nil, nil
	}

	query := BuildQuery(persona, job)

	var insights []Insight
	for _, rs := range ranked[:topK] {
		if err := ctx.Err(); err != nil {
			return insights, err
		}

		passages := SplitPassages(rs.Section)
		if len(passages) == 0 {
			continue
		}

		scores, err := r.scorePassages(ctx, query, passages)
		if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
			return insights, err
		}

		parent := make([]Insight, 0, len(passages))
		for i, p := range passages {
			parent = append(parent, Insight{
				Document:    rs.Section.Document,
				Parent:      rs.Section.Heading,
				RefinedText: p.Text,
				Page:        p.Page,
				Score:       scores[i],
			})
		}

		sort.SliceStable(parent, func(a, b int) bool {
			return parent[a].Score > parent[b].Score
		})

		limit := r.cfg.MaxPassagesPerSection
		if limit > 0 && len(parent) > limit {
			parent = parent[:limit]
		}
		insights = append(insights, parent...)

		if err != nil {
			return insights, err
		}
	}

	return insights, nil
}

// Passage is a sentence-group slice of one section's body.
type Passage struct {
	Text string
	Page int
}

// SplitPassages breaks a section body into sentence-granularity passages.
// Lines are grouped per page first so every passage keeps an exact page
// index.
func SplitPassages(sec section.Section) []Passage {
	var passages []Passage

	pageText := map[int][]string{}
	var pages []int
	for _, line := range sec.Lines {
		if _, seen := pageText[line.Page]; !seen {
			pages = append(pages, line.Page)
		}
		pageText[line.Page] = append(pageText[line.Page], line.Text)
	}

	for _, page := range pages {
		text := strings.TrimSpace(strings.Join(pageText[page], " "))
		if text == "" {
			continue
		}
		for _, group := range groupSentences(splitSentences(text), passageMaxChars) {
			passages = append(passages, Passage{Text: group, Page: page})
		}
	}

	return passages
}

func (r *Ranker) scorePassages(ctx context.Context, query string, passages []Passage) ([]float32, error) {
	sections := make([]section.Section, len(passages))
	for i, p := range passages {
		sections[i] = section.Section{
			Lines: []section.Line{{Text: p.Text, Page: p.Page}},
		}
	}
	return r.scoreSections(ctx, query, sections)
}

// splitSentences does basic sentence splitting on terminal punctuation
// followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && runes[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// groupSentences packs consecutive sentences into passages of at most
// maxChars runes, never splitting inside a sentence.
func groupSentences(sentences []string, maxChars int) []string {
	var groups []string
	var current strings.Builder
	currentLen := 0

	for _, sent := range sentences {
		sentLen := utf8.RuneCountInString(sent)
		if currentLen > 0 && currentLen+sentLen+1 > maxChars {
			groups = append(groups, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(sent)
		currentLen += sentLen
	}
	if currentLen > 0 {
		groups = append(groups, current.String())
	}

	return groups
}
