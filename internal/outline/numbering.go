package outline

import (
	"regexp"
	"strings"
)

var (
	decimalPrefix = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s+\S`)
	romanPrefix   = regexp.MustCompile(`^([ivxlcdm]+|[IVXLCDM]+)[.)]\s+\S`)
	alphaPrefix   = regexp.MustCompile(`^[A-Za-z][.)]\s+\S`)
)

// DetectNumbering classifies an explicit numbering prefix at the start of
// text. Decimal patterns also report their segment depth, so "1. Scope"
// is (decimal, 1) and "1.2.3 Detail" is (decimal, 3). Roman is checked
// before alpha so "iv." is roman, not a single-letter alpha label.
func DetectNumbering(text string) (Numbering, int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return NumberNone, 0
	}

	if m := decimalPrefix.FindStringSubmatch(text); m != nil {
		depth := strings.Count(m[1], ".") + 1
		return NumberDecimal, depth
	}

	if romanPrefix.MatchString(text) {
		return NumberRoman, 0
	}

	if alphaPrefix.MatchString(text) {
		return NumberAlpha, 0
	}

	return NumberNone, 0
}
