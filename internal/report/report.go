// Package report defines the JSON output schemas at the CLI boundary.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/docsift/docsift/internal/outline"
	"github.com/docsift/docsift/internal/rank"
)

// OutlineEntry is one heading in the outline output.
type OutlineEntry struct {
	Level string `json:"level"` // "H1" | "H2" | "H3"
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// OutlineReport is the outline output schema:
// {"title": ..., "outline": [{"level", "text", "page"}, ...]}.
type OutlineReport struct {
	Title   string         `json:"title"`
	Outline []OutlineEntry `json:"outline"`

	// Degraded marks a partial outline produced under an expired time
	// budget.
	Degraded bool `json:"degraded,omitempty"`
}

// FromOutline converts an extracted outline into its output form.
func FromOutline(out outline.Outline) OutlineReport {
	report := OutlineReport{
		Title:    out.Title,
		Outline:  make([]OutlineEntry, 0, len(out.Headings)),
		Degraded: out.Degraded,
	}

	for _, h := range out.Headings {
		report.Outline = append(report.Outline, OutlineEntry{
			Level: h.Level.String(),
			Text:  h.Text,
			Page:  h.Page,
		})
	}

	return report
}

// RankingMetadata describes one ranking run.
type RankingMetadata struct {
	InputDocuments []string `json:"input_documents"`
	Persona        string   `json:"persona"`
	JobToBeDone    string   `json:"job_to_be_done"`
	ProcessedAt    string   `json:"processed_at"`
	Degraded       bool     `json:"degraded,omitempty"`
}

// ExtractedSection is one ranked section in the ranking output.
type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

// SubsectionAnalysis is one refined passage in the ranking output.
type SubsectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// RankingReport is the persona-ranking output schema.
type RankingReport struct {
	Metadata           RankingMetadata      `json:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections"`
	SubSectionAnalysis []SubsectionAnalysis `json:"sub_section_analysis"`
}

// BuildRanking assembles the ranking output from ranked sections and
// subsection insights.
func BuildRanking(documents []string, persona, job string, ranked []rank.RankedSection, insights []rank.Insight, degraded bool) RankingReport {
	rep := RankingReport{
		Metadata: RankingMetadata{
			InputDocuments: documents,
			Persona:        persona,
			JobToBeDone:    job,
			ProcessedAt:    time.Now().UTC().Format(time.RFC3339),
			Degraded:       degraded,
		},
		ExtractedSections:  make([]ExtractedSection, 0, len(ranked)),
		SubSectionAnalysis: make([]SubsectionAnalysis, 0, len(insights)),
	}

	for _, rs := range ranked {
		rep.ExtractedSections = append(rep.ExtractedSections, ExtractedSection{
			Document:       rs.Section.Document,
			SectionTitle:   rs.Section.Heading.Text,
			ImportanceRank: rs.Rank,
			PageNumber:     rs.Section.Heading.Page,
		})
	}

	for _, in := range insights {
		rep.SubSectionAnalysis = append(rep.SubSectionAnalysis, SubsectionAnalysis{
			Document:    in.Document,
			RefinedText: in.RefinedText,
			PageNumber:  in.Page,
		})
	}

	return rep
}

// Write encodes v as indented JSON without HTML escaping.
func Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
