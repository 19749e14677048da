// Package section partitions a document's text into contiguous sections
// bounded by consecutive outline headings.
package section

import (
	"path/filepath"
	"strings"

	"github.com/docsift/docsift/internal/outline"
	"github.com/docsift/docsift/internal/pdfsource"
)

// Line is one body line of a section with its page of origin.
type Line struct {
	Text string
	Page int
}

// Section is a contiguous span of document text owned by one heading.
// Read-only once produced.
type Section struct {
	Heading   outline.HeadingNode
	Lines     []Line
	StartPage int
	EndPage   int

	// Document is the source file name, carried through to the ranking
	// output.
	Document string

	// Placeholder marks the synthetic whole-document section produced
	// when the outline is empty.
	Placeholder bool
}

// Body returns the section's text with lines joined in reading order.
func (s Section) Body() string {
	parts := make([]string, len(s.Lines))
	for i, line := range s.Lines {
		parts[i] = line.Text
	}
	return strings.Join(parts, "\n")
}

// Chunk produces one Section per non-Title heading. A section's span is
// [its heading's order, the next heading's order): the heading line
// itself is excluded from the body, so section bodies partition the
// document body exactly, modulo heading text.
//
// A document with an empty outline yields a single section covering the
// whole document under a placeholder heading named after the file, so
// downstream ranking never sees zero sections.
func Chunk(docName string, blocks []pdfsource.TextBlock, out outline.Outline) []Section {
	headings := out.Headings

	if len(headings) == 0 {
		return []Section{placeholderSection(docName, blocks, out)}
	}

	sections := make([]Section, 0, len(headings))
	for i, h := range headings {
		end := int(^uint(0) >> 1) // no next heading: span to document end
		if i+1 < len(headings) {
			end = headings[i+1].Order
		}

		sec := Section{
			Heading:   h,
			StartPage: h.Page,
			EndPage:   h.Page,
			Document:  docName,
		}

		for _, b := range blocks {
			if b.Order <= h.Order || b.Order >= end {
				continue
			}
			if out.HasTitle && b.Order == out.TitleOrder {
				continue
			}
			sec.Lines = append(sec.Lines, Line{Text: b.Text, Page: b.Page})
			if b.Page > sec.EndPage {
				sec.EndPage = b.Page
			}
		}

		sections = append(sections, sec)
	}

	return sections
}

func placeholderSection(docName string, blocks []pdfsource.TextBlock, out outline.Outline) Section {
	sec := Section{
		Heading: outline.HeadingNode{
			Level: outline.H1,
			Text:  placeholderTitle(docName),
			Page:  0,
			Order: -1,
		},
		Document:    docName,
		Placeholder: true,
	}

	for _, b := range blocks {
		if out.HasTitle && b.Order == out.TitleOrder {
			continue
		}
		sec.Lines = append(sec.Lines, Line{Text: b.Text, Page: b.Page})
		if b.Page > sec.EndPage {
			sec.EndPage = b.Page
		}
	}
	if len(sec.Lines) > 0 {
		sec.StartPage = sec.Lines[0].Page
	}

	return sec
}

func placeholderTitle(docName string) string {
	base := filepath.Base(docName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
