package pdfsource

import (
	"testing"
)

func TestFontStyle(t *testing.T) {
	tests := []struct {
		name   string
		font   string
		bold   bool
		italic bool
	}{
		{"plain", "Helvetica", false, false},
		{"bold", "Helvetica-Bold", true, false},
		{"bold oblique", "Helvetica-BoldOblique", true, true},
		{"italic mt", "TimesNewRomanPS-ItalicMT", false, true},
		{"black weight", "Roboto-Black", true, false},
		{"heavy weight", "AvenirNext-Heavy", true, false},
		{"case insensitive", "ARIAL-BOLDITALIC", true, true},
		{"empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bold, italic := FontStyle(tt.font)
			if bold != tt.bold || italic != tt.italic {
				t.Errorf("FontStyle(%q) = (%v, %v), want (%v, %v)", tt.font, bold, italic, tt.bold, tt.italic)
			}
		})
	}
}

func TestGroupLines(t *testing.T) {
	e := NewExtractor()

	// Two lines in bottom-left origin coordinates: y 700 (higher on the
	// page) and y 680, with fragments deliberately out of order.
	frags := []fragment{
		{text: "world", x: 130, y: 700.5, w: 40, fontSize: 12},
		{text: "line", x: 72, y: 680, w: 30, fontSize: 12},
		{text: "hello", x: 72, y: 700, w: 50, fontSize: 12},
		{text: "two", x: 110, y: 680, w: 28, fontSize: 12},
	}

	lines := e.groupLines(frags)
	if len(lines) != 2 {
		t.Fatalf("groupLines() = %d lines, want 2", len(lines))
	}

	if lines[0][0].text != "world" && lines[0][0].text != "hello" {
		t.Fatalf("first line = %+v, want the y~700 fragments", lines[0])
	}
	if lines[0][0].text != "hello" || lines[0][1].text != "world" {
		t.Errorf("first line order = %q, %q, want left to right", lines[0][0].text, lines[0][1].text)
	}
	if lines[1][0].text != "line" || lines[1][1].text != "two" {
		t.Errorf("second line order = %q, %q, want left to right", lines[1][0].text, lines[1][1].text)
	}
}

func TestGroupLinesBaselineTolerance(t *testing.T) {
	e := &Extractor{LineTolerance: 2.0}

	frags := []fragment{
		{text: "a", x: 72, y: 500, w: 10, fontSize: 10},
		{text: "b", x: 90, y: 498.5, w: 10, fontSize: 10}, // within tolerance
		{text: "c", x: 72, y: 490, w: 10, fontSize: 10},   // new line
	}

	lines := e.groupLines(frags)
	if len(lines) != 2 {
		t.Fatalf("groupLines() = %d lines, want 2", len(lines))
	}
	if len(lines[0]) != 2 {
		t.Errorf("first line has %d fragments, want the near-baseline pair", len(lines[0]))
	}
}

func TestGroupLinesEmpty(t *testing.T) {
	e := NewExtractor()
	if lines := e.groupLines(nil); lines != nil {
		t.Errorf("groupLines(nil) = %v, want nil", lines)
	}
}

func TestBuildBlock(t *testing.T) {
	line := []fragment{
		{text: "Hello", font: "Helvetica-Bold", fontSize: 14, x: 72, y: 700, w: 40},
		{text: "World", font: "Helvetica-Bold", fontSize: 14, x: 120, y: 700, w: 42}, // gap 8 > 0.25*14
	}

	block, ok := buildBlock(line, 2, 612, 792)
	if !ok {
		t.Fatal("buildBlock() ok = false, want a block")
	}

	if block.Text != "Hello World" {
		t.Errorf("Text = %q, want %q (space inferred from the gap)", block.Text, "Hello World")
	}
	if !block.Bold {
		t.Error("Bold = false, want true from the font name")
	}
	if block.Page != 2 {
		t.Errorf("Page = %d, want 2", block.Page)
	}
	if block.FontSize != 14 {
		t.Errorf("FontSize = %v, want 14", block.FontSize)
	}

	// Bottom-left baseline 700 on a 792pt page converts to top-left
	// coordinates with Y1 = 792 - 700 = 92.
	if block.BBox.Y1 != 92 {
		t.Errorf("BBox.Y1 = %v, want 92", block.BBox.Y1)
	}
	if block.BBox.Y0 >= block.BBox.Y1 {
		t.Errorf("BBox = %+v, want Y0 above Y1 in top-left origin", block.BBox)
	}
}

func TestBuildBlockNoSpaceForTightRuns(t *testing.T) {
	line := []fragment{
		{text: "Hel", font: "Helvetica", fontSize: 12, x: 72, y: 700, w: 20},
		{text: "lo", font: "Helvetica", fontSize: 12, x: 92.5, y: 700, w: 12}, // gap 0.5 < 0.25*12
	}

	block, ok := buildBlock(line, 0, 612, 792)
	if !ok {
		t.Fatal("buildBlock() ok = false, want a block")
	}
	if block.Text != "Hello" {
		t.Errorf("Text = %q, want %q (no space for tight glyph runs)", block.Text, "Hello")
	}
}

func TestBuildBlockEmptyText(t *testing.T) {
	line := []fragment{{text: "   ", font: "Helvetica", fontSize: 12, x: 72, y: 700, w: 10}}
	if _, ok := buildBlock(line, 0, 612, 792); ok {
		t.Error("buildBlock() ok = true for whitespace-only line, want false")
	}
}

func TestErrorPredicates(t *testing.T) {
	parseErr := &ParseError{Path: "x.pdf"}
	noText := &NoTextLayerError{Path: "y.pdf"}

	if !IsParseError(parseErr) || IsParseError(noText) {
		t.Error("IsParseError misclassifies")
	}
	if !IsNoTextLayer(noText) || IsNoTextLayer(parseErr) {
		t.Error("IsNoTextLayer misclassifies")
	}
}
