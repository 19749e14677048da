package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/docsift/docsift/internal/outline"
	"github.com/docsift/docsift/internal/rank"
	"github.com/docsift/docsift/internal/section"
)

func TestFromOutline(t *testing.T) {
	out := outline.Outline{
		Title:    "Understanding AI",
		HasTitle: true,
		Headings: []outline.HeadingNode{
			{Level: outline.H1, Text: "Introduction", Page: 0, Order: 1},
			{Level: outline.H2, Text: "History", Page: 1, Order: 4},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, FromOutline(out)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded struct {
		Title   string `json:"title"`
		Outline []struct {
			Level string `json:"level"`
			Text  string `json:"text"`
			Page  int    `json:"page"`
		} `json:"outline"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Title != "Understanding AI" {
		t.Errorf("title = %q, want %q", decoded.Title, "Understanding AI")
	}
	if len(decoded.Outline) != 2 {
		t.Fatalf("outline = %d entries, want 2", len(decoded.Outline))
	}
	if decoded.Outline[0].Level != "H1" || decoded.Outline[0].Page != 0 {
		t.Errorf("outline[0] = %+v, want H1 on page 0", decoded.Outline[0])
	}
	if decoded.Outline[1].Level != "H2" || decoded.Outline[1].Page != 1 {
		t.Errorf("outline[1] = %+v, want H2 on page 1", decoded.Outline[1])
	}

	if strings.Contains(buf.String(), "degraded") {
		t.Error("degraded field present for a complete outline, want omitted")
	}
}

func TestFromOutlineEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FromOutline(outline.Outline{})); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Empty outlines serialize with an empty array, not null.
	if !strings.Contains(buf.String(), `"outline": []`) {
		t.Errorf("output = %s, want empty outline array", buf.String())
	}
}

func TestBuildRanking(t *testing.T) {
	ranked := []rank.RankedSection{
		{
			Section: section.Section{
				Heading:  outline.HeadingNode{Text: "Vegan Mains", Page: 3, Order: 7},
				Document: "menu.pdf",
			},
			Score: 0.91,
			Rank:  1,
		},
	}
	insights := []rank.Insight{
		{Document: "menu.pdf", RefinedText: "Lentil stew serves twelve.", Page: 4, Score: 0.88},
	}

	rep := BuildRanking([]string{"menu.pdf"}, "Food Contractor", "Plan a vegan buffet", ranked, insights, false)

	var buf bytes.Buffer
	if err := Write(&buf, rep); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded struct {
		Metadata struct {
			InputDocuments []string `json:"input_documents"`
			Persona        string   `json:"persona"`
			JobToBeDone    string   `json:"job_to_be_done"`
			ProcessedAt    string   `json:"processed_at"`
		} `json:"metadata"`
		ExtractedSections []struct {
			Document       string `json:"document"`
			SectionTitle   string `json:"section_title"`
			ImportanceRank int    `json:"importance_rank"`
			PageNumber     int    `json:"page_number"`
		} `json:"extracted_sections"`
		SubSectionAnalysis []struct {
			Document    string `json:"document"`
			RefinedText string `json:"refined_text"`
			PageNumber  int    `json:"page_number"`
		} `json:"sub_section_analysis"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Metadata.Persona != "Food Contractor" || decoded.Metadata.ProcessedAt == "" {
		t.Errorf("metadata = %+v", decoded.Metadata)
	}
	if len(decoded.ExtractedSections) != 1 {
		t.Fatalf("extracted_sections = %d, want 1", len(decoded.ExtractedSections))
	}
	es := decoded.ExtractedSections[0]
	if es.SectionTitle != "Vegan Mains" || es.ImportanceRank != 1 || es.PageNumber != 3 {
		t.Errorf("extracted_sections[0] = %+v", es)
	}
	if len(decoded.SubSectionAnalysis) != 1 || decoded.SubSectionAnalysis[0].PageNumber != 4 {
		t.Errorf("sub_section_analysis = %+v", decoded.SubSectionAnalysis)
	}
}
