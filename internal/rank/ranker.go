// Package rank scores document sections against a persona and
// job-to-be-done query and refines the top results into passage-level
// insights.
package rank

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/embedding"
	"github.com/docsift/docsift/internal/section"
)

// RankedSection is one section with its relevance score and dense rank.
type RankedSection struct {
	Section section.Section
	Score   float32
	Rank    int // 1-based, dense, unique
}

// Ranker orders sections by similarity to a persona+job query. A nil
// embedding service means lexical scoring from the start; an embedding
// failure mid-run falls back to lexical scoring for the whole run so that
// all scores stay comparable.
type Ranker struct {
	embed *embedding.Service
	cfg   config.RankingConfig

	// workers bounds concurrent embedding requests.
	workers int
}

// NewRanker creates a ranker. svc may be nil.
func NewRanker(svc *embedding.Service, cfg config.RankingConfig, workers int) *Ranker {
	if workers <= 0 {
		workers = 4
	}
	return &Ranker{embed: svc, cfg: cfg, workers: workers}
}

// BuildQuery concatenates the persona and job descriptions into the
// single query string both ranking stages embed.
func BuildQuery(persona, job string) string {
	switch {
	case persona == "":
		return job
	case job == "":
		return persona
	default:
		return persona + "\n" + job
	}
}

// Rank scores every section against the query and returns a total order:
// dense ranks 1..M, ties broken by ascending reading order, no section
// omitted. Cancelling ctx stops further embedding requests; sections
// already scored keep their scores and the partial ordering is returned
// together with ctx.Err().
func (r *Ranker) Rank(ctx context.Context, persona, job string, sections []section.Section) ([]RankedSection, error) {
	if len(sections) == 0 {
		return nil, nil
	}

	query := BuildQuery(persona, job)

	scores, err := r.scoreSections(ctx, query, sections)
	if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return nil, err
	}

	ranked := make([]RankedSection, len(sections))
	for i, sec := range sections {
		ranked[i] = RankedSection{Section: sec, Score: scores[i]}
	}

	// Sections arrive in reading order (per document, in batch order), so
	// the stable sort resolves ties toward the earlier-appearing section.
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked, err
}

// scoreSections computes one similarity score per section, in section
// order. It prefers embedding similarity and falls back to lexical
// scoring when the provider is unavailable.
func (r *Ranker) scoreSections(ctx context.Context, query string, sections []section.Section) ([]float32, error) {
	if r.embed == nil {
		return r.lexicalScores(query, sections, nil)
	}

	queryVec, err := r.embed.Embed(ctx, query)
	if err != nil {
		if embedding.IsUnavailable(err) {
			return r.lexicalScores(query, sections, err)
		}
		return make([]float32, len(sections)), err
	}

	scores := make([]float32, len(sections))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		runErr    error
		cancelled bool
	)
	sem := make(chan struct{}, r.workers)

	for i := range sections {
		mu.Lock()
		stop := runErr != nil || cancelled
		mu.Unlock()
		if stop {
			break
		}
		if ctx.Err() != nil {
			mu.Lock()
			cancelled = true
			mu.Unlock()
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			body := sections[i].Body()
			if body == "" {
				return
			}

			vec, embedErr := r.embed.Embed(ctx, body)
			if embedErr != nil {
				mu.Lock()
				if runErr == nil {
					runErr = embedErr
				}
				mu.Unlock()
				return
			}
			scores[i] = embedding.Similarity(queryVec, vec)
		}(i)
	}

	wg.Wait()

	if runErr != nil {
		if embedding.IsUnavailable(runErr) {
			return r.lexicalScores(query, sections, runErr)
		}
		return scores, runErr
	}
	return scores, ctx.Err()
}

func (r *Ranker) lexicalScores(query string, sections []section.Section, cause error) ([]float32, error) {
	if r.cfg.DisableLexicalFallback && cause != nil {
		return make([]float32, len(sections)), cause
	}
	if cause != nil {
		log.Printf("embedding unavailable, falling back to lexical scoring: %v", cause)
	}
	return ScoreLexical(query, sections)
}
