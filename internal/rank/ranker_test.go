package rank

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/embedding"
	"github.com/docsift/docsift/internal/outline"
	"github.com/docsift/docsift/internal/section"
)

// stubClient embeds text onto a fixed 2-dim space: anything mentioning
// "vegan" maps to one axis, everything else to the other. Scale checks
// that cosine similarity ignores vector magnitude.
type stubClient struct {
	scale float32
	fail  bool
}

func (c *stubClient) vector(text string) []float32 {
	scale := c.scale
	if scale == 0 {
		scale = 1
	}
	if strings.Contains(strings.ToLower(text), "vegan") {
		return []float32{scale, 0}
	}
	return []float32{0, scale}
}

func (c *stubClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.fail {
		return nil, errors.New("connection refused")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.vector(text), nil
}

func (c *stubClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := c.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (c *stubClient) Dimensions() int { return 2 }

func stubRanker(client embedding.Client, cfg config.RankingConfig) *Ranker {
	svc := embedding.NewServiceWithClient(&config.EmbeddingConfig{
		Provider:      "openai",
		Model:         "stub",
		Dimensions:    2,
		BatchSize:     10,
		MaxInputChars: 2000,
	}, client, nil)
	return NewRanker(svc, cfg, 2)
}

func makeSection(doc, title, body string, page, order int) section.Section {
	return section.Section{
		Heading:  outline.HeadingNode{Level: outline.H1, Text: title, Page: page, Order: order},
		Lines:    []section.Line{{Text: body, Page: page}},
		Document: doc,
	}
}

func TestRankOrdersByRelevance(t *testing.T) {
	sections := []section.Section{
		makeSection("menu.pdf", "Grilled Steaks", "marinated beef with peppercorn sauce", 0, 1),
		makeSection("menu.pdf", "Vegan Mains", "vegan lentil stew with seasonal vegetables", 1, 3),
		makeSection("menu.pdf", "Desserts", "chocolate cake and ice cream", 2, 5),
	}

	r := stubRanker(&stubClient{}, config.RankingConfig{TopKSubsections: 2})
	ranked, err := r.Rank(context.Background(), "Food Contractor", "prepare a vegan buffet menu", sections)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if len(ranked) != 3 {
		t.Fatalf("Rank() returned %d sections, want 3 (no section omitted)", len(ranked))
	}
	if ranked[0].Section.Heading.Text != "Vegan Mains" {
		t.Errorf("rank 1 = %q, want %q", ranked[0].Section.Heading.Text, "Vegan Mains")
	}
	for i, rs := range ranked {
		if rs.Rank != i+1 {
			t.Errorf("ranked[%d].Rank = %d, want %d (dense ranks)", i, rs.Rank, i+1)
		}
	}
}

func TestRankScaleInvariant(t *testing.T) {
	sections := []section.Section{
		makeSection("a.pdf", "One", "vegan cooking notes", 0, 1),
		makeSection("a.pdf", "Two", "carpentry and woodwork", 0, 3),
	}

	rank := func(client embedding.Client) []string {
		r := stubRanker(client, config.RankingConfig{})
		ranked, err := r.Rank(context.Background(), "", "vegan recipes", sections)
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}
		titles := make([]string, len(ranked))
		for i, rs := range ranked {
			titles[i] = rs.Section.Heading.Text
		}
		return titles
	}

	unit := rank(&stubClient{scale: 1})
	scaled := rank(&stubClient{scale: 250})

	for i := range unit {
		if unit[i] != scaled[i] {
			t.Errorf("order differs under scaling: %v vs %v", unit, scaled)
			break
		}
	}
}

func TestRankTieBreakReadingOrder(t *testing.T) {
	// All sections embed identically, so every score ties and the ranking
	// must preserve input (reading) order.
	sections := []section.Section{
		makeSection("b.pdf", "First", "same text", 0, 2),
		makeSection("b.pdf", "Second", "same text", 1, 4),
		makeSection("b.pdf", "Third", "same text", 2, 6),
	}

	r := stubRanker(&stubClient{}, config.RankingConfig{})
	ranked, err := r.Rank(context.Background(), "persona", "job", sections)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	want := []string{"First", "Second", "Third"}
	for i, rs := range ranked {
		if rs.Section.Heading.Text != want[i] {
			t.Errorf("ranked[%d] = %q, want %q", i, rs.Section.Heading.Text, want[i])
		}
	}
}

func TestRankLexicalFallback(t *testing.T) {
	sections := []section.Section{
		makeSection("c.pdf", "Gardening", "planting tomatoes in spring soil", 0, 1),
		makeSection("c.pdf", "Astronomy", "telescope lenses and star charts", 1, 3),
	}

	r := stubRanker(&stubClient{fail: true}, config.RankingConfig{})
	ranked, err := r.Rank(context.Background(), "", "planting tomatoes", sections)
	if err != nil {
		t.Fatalf("Rank() error = %v, want fallback success", err)
	}

	if len(ranked) != 2 {
		t.Fatalf("Rank() returned %d sections, want 2", len(ranked))
	}
	if ranked[0].Section.Heading.Text != "Gardening" {
		t.Errorf("lexical rank 1 = %q, want %q", ranked[0].Section.Heading.Text, "Gardening")
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Errorf("lexical scores = %v / %v, want first strictly higher", ranked[0].Score, ranked[1].Score)
	}
}

func TestRankFallbackDisabled(t *testing.T) {
	sections := []section.Section{
		makeSection("c.pdf", "Gardening", "planting tomatoes", 0, 1),
	}

	r := stubRanker(&stubClient{fail: true}, config.RankingConfig{DisableLexicalFallback: true})
	_, err := r.Rank(context.Background(), "", "tomatoes", sections)
	if !embedding.IsUnavailable(err) {
		t.Errorf("Rank() error = %v, want UnavailableError with fallback disabled", err)
	}
}

func TestRankCancelledContext(t *testing.T) {
	sections := []section.Section{
		makeSection("d.pdf", "One", "alpha", 0, 1),
		makeSection("d.pdf", "Two", "beta", 0, 3),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := stubRanker(&stubClient{}, config.RankingConfig{})
	ranked, err := r.Rank(ctx, "", "alpha", sections)

	if err == nil {
		t.Fatal("Rank() error = nil, want context error")
	}
	if len(ranked) != len(sections) {
		t.Errorf("Rank() returned %d sections, want partial ordering over all %d", len(ranked), len(sections))
	}
}

func TestRankEmptyInput(t *testing.T) {
	r := stubRanker(&stubClient{}, config.RankingConfig{})
	ranked, err := r.Rank(context.Background(), "p", "j", nil)
	if err != nil || ranked != nil {
		t.Errorf("Rank(nil) = %v, %v, want nil, nil", ranked, err)
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		persona  string
		job      string
		expected string
	}{
		{"both", "Travel Planner", "Plan a trip", "Travel Planner\nPlan a trip"},
		{"persona only", "Travel Planner", "", "Travel Planner"},
		{"job only", "", "Plan a trip", "Plan a trip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.persona, tt.job); got != tt.expected {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.expected)
			}
		})
	}
}
