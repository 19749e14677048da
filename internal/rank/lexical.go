package rank

import (
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/docsift/docsift/internal/section"
)

// lexicalDoc is the shape indexed for each section during fallback
// scoring.
type lexicalDoc struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ScoreLexical scores sections against the query with an in-memory
// full-text index. It is the degraded-mode replacement for embedding
// similarity: scores are term-overlap based, normalized to [0, 1] by the
// best hit, and sections sharing no terms with the query score 0.
func ScoreLexical(query string, sections []section.Section) ([]float32, error) {
	scores := make([]float32, len(sections))
	if len(sections) == 0 || query == "" {
		return scores, nil
	}

	index, err := bleve.NewMemOnly(buildLexicalMapping())
	if err != nil {
		return scores, fmt.Errorf("create lexical index: %w", err)
	}
	defer index.Close()

	for i, sec := range sections {
		doc := lexicalDoc{
			Title: sec.Heading.Text,
			Body:  sec.Body(),
		}
		if err := index.Index(strconv.Itoa(i), doc); err != nil {
			return scores, fmt.Errorf("index section %d: %w", i, err)
		}
	}

	bodyQuery := bleve.NewMatchQuery(query)
	bodyQuery.SetField("body")
	titleQuery := bleve.NewMatchQuery(query)
	titleQuery.SetField("title")

	searchReq := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(bodyQuery, titleQuery))
	searchReq.Size = len(sections)

	result, err := index.Search(searchReq)
	if err != nil {
		return scores, fmt.Errorf("lexical search: %w", err)
	}

	var maxScore float64
	for _, hit := range result.Hits {
		if hit.Score > maxScore {
			maxScore = hit.Score
		}
	}
	if maxScore == 0 {
		return scores, nil
	}

	for _, hit := range result.Hits {
		idx, convErr := strconv.Atoi(hit.ID)
		if convErr != nil || idx < 0 || idx >= len(sections) {
			continue
		}
		scores[idx] = float32(hit.Score / maxScore)
	}

	return scores, nil
}

func buildLexicalMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "en"
	indexMapping.DefaultField = "body"

	docMapping := bleve.NewDocumentMapping()

	bodyField := bleve.NewTextFieldMapping()
	bodyField.Store = false
	bodyField.Index = true
	docMapping.AddFieldMappingsAt("body", bodyField)

	titleField := bleve.NewTextFieldMapping()
	titleField.Store = false
	titleField.Index = true
	docMapping.AddFieldMappingsAt("title", titleField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
