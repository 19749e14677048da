package pdfsource

import (
	"context"
	"fmt"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Extractor reads text blocks from PDF files using a pure-Go PDF reader.
// Fragments are regrouped into line-level blocks because the reader yields
// individual glyph runs.
type Extractor struct {
	// LineTolerance is the maximum baseline distance (points) for two
	// fragments to be considered part of the same line.
	LineTolerance float64
}

// NewExtractor returns an Extractor with default grouping tolerances.
func NewExtractor() *Extractor {
	return &Extractor{LineTolerance: 2.0}
}

// fragment is one glyph run as reported by the PDF reader, in bottom-left
// origin page coordinates.
type fragment struct {
	text     string
	font     string
	fontSize float64
	x        float64
	y        float64
	w        float64
}

// Extract parses the PDF at path and returns its text blocks in reading
// order. It fails with *ParseError on corrupt input and *NoTextLayerError
// when the document contains no extractable text. When ctx expires mid
// document, the blocks read so far are returned together with ctx.Err().
func (e *Extractor) Extract(ctx context.Context, path string) (blocks []TextBlock, err error) {
	// The underlying reader panics on some malformed files; surface those
	// as parse errors instead of crashing the batch.
	defer func() {
		if r := recover(); r != nil {
			blocks = nil
			err = &ParseError{Path: path, Err: fmt.Errorf("panic in pdf reader: %v", r)}
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	numPages := reader.NumPage()
	order := 0
	sawText := false

	for i := 1; i <= numPages; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return blocks, ctxErr
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageW, pageH := pageSize(page)
		content := page.Content()

		frags := make([]fragment, 0, len(content.Text))
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" && t.S != " " {
				continue
			}
			frags = append(frags, fragment{
				text:     t.S,
				font:     t.Font,
				fontSize: t.FontSize,
				x:        t.X,
				y:        t.Y,
				w:        t.W,
			})
		}
		if len(frags) > 0 {
			sawText = true
		}

		for _, line := range e.groupLines(frags) {
			block, ok := buildBlock(line, i-1, pageW, pageH)
			if !ok {
				continue
			}
			block.Order = order
			order++
			blocks = append(blocks, block)
		}
	}

	if !sawText {
		return nil, &NoTextLayerError{Path: path}
	}

	return blocks, nil
}

// groupLines clusters fragments that share a baseline into lines, ordered
// top to bottom and left to right.
func (e *Extractor) groupLines(frags []fragment) [][]fragment {
	if len(frags) == 0 {
		return nil
	}

	tol := e.LineTolerance
	if tol <= 0 {
		tol = 2.0
	}

	// Sort by baseline descending (PDF origin is bottom-left, so larger y
	// is higher on the page), then left to right.
	sort.SliceStable(frags, func(a, b int) bool {
		if frags[a].y != frags[b].y {
			return frags[a].y > frags[b].y
		}
		return frags[a].x < frags[b].x
	})

	var lines [][]fragment
	current := []fragment{frags[0]}
	baseline := frags[0].y

	for _, frag := range frags[1:] {
		if baseline-frag.y <= tol {
			current = append(current, frag)
			continue
		}
		lines = append(lines, current)
		current = []fragment{frag}
		baseline = frag.y
	}
	lines = append(lines, current)

	for _, line := range lines {
		sort.SliceStable(line, func(a, b int) bool {
			return line[a].x < line[b].x
		})
	}

	return lines
}

// buildBlock merges a line of fragments into a single TextBlock. The block
// bbox is converted to top-left origin so that smaller Y0 means higher on
// the page.
func buildBlock(line []fragment, pageIndex int, pageW, pageH float64) (TextBlock, bool) {
	var sb strings.Builder
	var prevEnd float64
	minX, maxX := line[0].x, line[0].x+line[0].w
	maxSize := 0.0
	font := line[0].font
	baseline := line[0].y

	for i, frag := range line {
		if i > 0 {
			// Glyph runs carry no explicit spaces; infer one from the
			// horizontal gap.
			gap := frag.x - prevEnd
			if gap > 0.25*frag.fontSize && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(frag.text)
		prevEnd = frag.x + frag.w

		if frag.x < minX {
			minX = frag.x
		}
		if end := frag.x + frag.w; end > maxX {
			maxX = end
		}
		if frag.fontSize > maxSize {
			maxSize = frag.fontSize
			font = frag.font
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return TextBlock{}, false
	}

	bold, italic := FontStyle(font)

	return TextBlock{
		Text:     text,
		FontName: font,
		FontSize: maxSize,
		Bold:     bold,
		Italic:   italic,
		BBox: BBox{
			X0: minX,
			Y0: pageH - baseline - maxSize,
			X1: maxX,
			Y1: pageH - baseline,
		},
		Page:       pageIndex,
		PageWidth:  pageW,
		PageHeight: pageH,
	}, true
}

// FontStyle infers bold/italic flags from a PostScript font name such as
// "Helvetica-BoldOblique" or "TimesNewRomanPS-ItalicMT".
func FontStyle(name string) (bold, italic bool) {
	lower := strings.ToLower(name)
	bold = strings.Contains(lower, "bold") || strings.Contains(lower, "black") ||
		strings.Contains(lower, "heavy")
	italic = strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")
	return bold, italic
}

// pageSize reads the page MediaBox, walking up the page tree for inherited
// values. Falls back to US Letter when absent.
func pageSize(page pdflib.Page) (w, h float64) {
	v := page.V
	for !v.IsNull() {
		if box := v.Key("MediaBox"); !box.IsNull() && box.Len() == 4 {
			x0 := box.Index(0).Float64()
			y0 := box.Index(1).Float64()
			x1 := box.Index(2).Float64()
			y1 := box.Index(3).Float64()
			return x1 - x0, y1 - y0
		}
		v = v.Key("Parent")
	}
	return 612, 792
}
