package batch

import (
	"context"
	"testing"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/pdfsource"
	"github.com/docsift/docsift/internal/store"
)

// stubSource serves canned blocks per path.
type stubSource struct {
	blocks map[string][]pdfsource.TextBlock
	errs   map[string]error
}

func (s *stubSource) Extract(ctx context.Context, path string) ([]pdfsource.TextBlock, error) {
	if err := s.errs[path]; err != nil {
		return nil, err
	}
	return s.blocks[path], nil
}

func docBlocks() []pdfsource.TextBlock {
	block := func(text string, size float64, bold bool, page, order int, y0 float64) pdfsource.TextBlock {
		return pdfsource.TextBlock{
			Text:       text,
			FontSize:   size,
			Bold:       bold,
			Page:       page,
			Order:      order,
			BBox:       pdfsource.BBox{X0: 72, Y0: y0, X1: 400, Y1: y0 + size},
			PageWidth:  612,
			PageHeight: 792,
		}
	}
	return []pdfsource.TextBlock{
		block("Quarterly Report", 24, true, 0, 0, 80),
		block("1. Revenue", 16, true, 0, 1, 130),
		block("revenue held steady across all regions this quarter", 11, false, 0, 2, 160),
		block("2. Costs", 16, true, 0, 3, 200),
		block("costs rose slightly due to new hires", 11, false, 0, 4, 230),
	}
}

func TestProcessAllIsolatesFailures(t *testing.T) {
	source := &stubSource{
		blocks: map[string][]pdfsource.TextBlock{
			"good.pdf": docBlocks(),
		},
		errs: map[string]error{
			"corrupt.pdf": &pdfsource.ParseError{Path: "corrupt.pdf"},
		},
	}

	runner := NewRunner(source, config.Default(), nil, nil)
	outcomes := runner.ProcessAll(context.Background(), []string{"corrupt.pdf", "good.pdf"})

	if len(outcomes) != 2 {
		t.Fatalf("ProcessAll() = %d outcomes, want 2", len(outcomes))
	}

	if outcomes[0].Status != store.StatusFailed {
		t.Errorf("corrupt outcome status = %q, want %q", outcomes[0].Status, store.StatusFailed)
	}
	if !pdfsource.IsParseError(outcomes[0].Err) {
		t.Errorf("corrupt outcome err = %v, want parse error", outcomes[0].Err)
	}

	good := outcomes[1]
	if good.Status != store.StatusSuccess {
		t.Fatalf("good outcome status = %q (err %v), want success", good.Status, good.Err)
	}
	if good.Outline.Title != "Quarterly Report" {
		t.Errorf("title = %q, want %q", good.Outline.Title, "Quarterly Report")
	}
	if len(good.Outline.Headings) != 2 {
		t.Errorf("headings = %+v, want the two numbered sections", good.Outline.Headings)
	}
	if len(good.Sections) != 2 {
		t.Errorf("sections = %d, want 2", len(good.Sections))
	}
	if good.Document != "good.pdf" {
		t.Errorf("document = %q, want base name", good.Document)
	}
}

func TestProcessDocumentNoTextLayer(t *testing.T) {
	source := &stubSource{
		errs: map[string]error{
			"scan.pdf": &pdfsource.NoTextLayerError{Path: "scan.pdf"},
		},
	}

	runner := NewRunner(source, config.Default(), nil, nil)
	out := runner.ProcessDocument(context.Background(), "scan.pdf")

	if out.Status != store.StatusFailed {
		t.Errorf("status = %q, want %q", out.Status, store.StatusFailed)
	}
	if !pdfsource.IsNoTextLayer(out.Err) {
		t.Errorf("err = %v, want no-text-layer error", out.Err)
	}
}

func TestProcessDocumentExpiredBudgetIsPartial(t *testing.T) {
	source := &stubSource{
		errs: map[string]error{
			"slow.pdf": context.DeadlineExceeded,
		},
	}

	runner := NewRunner(source, config.Default(), nil, nil)
	out := runner.ProcessDocument(context.Background(), "slow.pdf")

	if out.Err != nil {
		t.Errorf("err = %v, want nil for a degraded document", out.Err)
	}
	if out.Status != store.StatusPartial {
		t.Errorf("status = %q, want %q", out.Status, store.StatusPartial)
	}
	if !out.Outline.Degraded {
		t.Error("outline.Degraded = false, want true")
	}
	if len(out.Sections) != 1 || !out.Sections[0].Placeholder {
		t.Errorf("sections = %+v, want one placeholder section", out.Sections)
	}
}
