package pdfsource

import (
	"context"
	"fmt"
)

// BBox is a text block's bounding box in page coordinates with the origin
// at the top-left corner, matching reading order (smaller Y0 is higher on
// the page).
type BBox struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// TextBlock is one line-level run of text extracted from a document,
// produced once per document load and never mutated afterwards.
type TextBlock struct {
	Text     string
	FontName string
	FontSize float64
	Bold     bool
	Italic   bool
	BBox     BBox
	Page     int // 0-based page index

	// Order is the block's position in reading order across the whole
	// document. Downstream ordering and tie-breaking key on it.
	Order int

	PageWidth  float64
	PageHeight float64
}

// Source yields the text blocks of a document in reading order.
type Source interface {
	Extract(ctx context.Context, path string) ([]TextBlock, error)
}

// ParseError indicates a malformed or unreadable document. It is fatal
// for the document and is never retried.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse document %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError checks if err is a document parse failure.
func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

// NoTextLayerError indicates a document with no extractable text, such as
// a scanned or image-only PDF. Fatal for the document; other documents in
// a batch continue.
type NoTextLayerError struct {
	Path string
}

func (e *NoTextLayerError) Error() string {
	return fmt.Sprintf("document %s has no extractable text layer", e.Path)
}

// IsNoTextLayer checks if err is a missing-text-layer failure.
func IsNoTextLayer(err error) bool {
	_, ok := err.(*NoTextLayerError)
	return ok
}
