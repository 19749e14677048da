package outline

// Level is a structural label assigned to a text block.
type Level int

const (
	Body Level = iota
	H3
	H2
	H1
	Title
)

func (l Level) String() string {
	switch l {
	case Title:
		return "Title"
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	default:
		return "Body"
	}
}

// HeadingNode is one heading in the extracted outline.
type HeadingNode struct {
	Level Level
	Text  string
	Page  int // 0-based page index

	// Order is the source block's position in reading order. Nodes are
	// strictly ordered by it and section boundaries key on it.
	Order int
}

// Outline is the ordered heading hierarchy of one document, with at most
// one Title. A document where nothing classifies above Body yields an
// empty (non-nil) outline, not an error.
type Outline struct {
	Title      string
	TitlePage  int
	TitleOrder int
	HasTitle   bool
	Headings   []HeadingNode

	// Degraded marks a partial outline returned because the extraction
	// time budget expired mid-document.
	Degraded bool
}

// Numbering classifies an explicit numbering prefix on a block.
type Numbering int

const (
	NumberNone Numbering = iota
	NumberDecimal
	NumberRoman
	NumberAlpha
)

func (n Numbering) String() string {
	switch n {
	case NumberDecimal:
		return "decimal"
	case NumberRoman:
		return "roman"
	case NumberAlpha:
		return "alpha"
	default:
		return "none"
	}
}

// Features is the per-block feature vector derived from document-wide
// statistics and local layout context. Derived once, never mutated.
type Features struct {
	// FontRank is the block's font-size percentile among all retained
	// blocks in the document, in [0, 1].
	FontRank float64

	Bold   bool
	Italic bool

	// Numbering and NumberingDepth describe an explicit numbering prefix
	// ("1.", "1.1", "A.", "iv."). Depth is the segment count for decimal
	// patterns and 0 otherwise.
	Numbering      Numbering
	NumberingDepth int

	// GapAbove is the vertical whitespace between this block and the
	// previous block on the same page; for the first block of a page it
	// is the distance from the page top.
	GapAbove float64

	CharLen int

	// Indent is the block's left-edge position bucketed into half-inch
	// steps.
	Indent int

	// InMarginBand is true when the block sits inside the configured
	// header/footer band of the page.
	InMarginBand bool

	// EndsSentence is true for long, non-uppercase text ending in a
	// period, which is body prose regardless of font.
	EndsSentence bool
}
