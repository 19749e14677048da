// Package embedding maps text to fixed-dimension vectors via an external
// provider, with batching, input truncation and an optional vector cache.
package embedding

import (
	"context"
	"fmt"
	"math"

	"github.com/docsift/docsift/internal/config"
)

// Client is the interface for embedding API clients
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// Cache stores previously computed vectors keyed by input text and model.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(text, model string) ([]float32, bool)
	Put(text, model string, vector []float32) error
}

// UnavailableError indicates the embedding model could not be loaded or
// queried. Ranking treats it as a signal to fall back to lexical scoring
// rather than aborting the run.
type UnavailableError struct {
	Provider string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("embedding provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsUnavailable checks if err is an embedding availability failure.
func IsUnavailable(err error) bool {
	_, ok := err.(*UnavailableError)
	return ok
}

// Service provides embedding generation functionality
type Service struct {
	cfg    *config.EmbeddingConfig
	client Client
	cache  Cache
}

// NewService creates a new embedding service. cache may be nil.
func NewService(ctx context.Context, cfg *config.EmbeddingConfig, cache Cache) (*Service, error) {
	var client Client
	var err error

	switch cfg.Provider {
	case "openai":
		client, err = NewOpenAIClient(cfg)
	case "gemini":
		client, err = NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, &UnavailableError{Provider: cfg.Provider, Err: err}
	}

	return &Service{cfg: cfg, client: client, cache: cache}, nil
}

// NewServiceWithClient wires an explicit client, used by tests and by
// callers that manage provider construction themselves.
func NewServiceWithClient(cfg *config.EmbeddingConfig, client Client, cache Cache) *Service {
	return &Service{cfg: cfg, client: client, cache: cache}
}

// Embed generates an embedding for a single text
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}
	text = Truncate(text, s.cfg.MaxInputChars)

	if s.cache != nil {
		if vec, ok := s.cache.Get(text, s.cfg.Model); ok {
			return vec, nil
		}
	}

	vec, err := s.client.Embed(ctx, text)
	if err != nil {
		return nil, wrapUnavailable(s.cfg.Provider, err)
	}

	if s.cache != nil {
		_ = s.cache.Put(text, s.cfg.Model, vec)
	}
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts. Empty texts yield
// nil vectors at their positions. Cached vectors are served locally and
// only misses are sent to the provider, in batches of the configured size.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))

	missTexts := make([]string, 0, len(texts))
	missIndices := make([]int, 0, len(texts))
	for i, text := range texts {
		if text == "" {
			continue
		}
		text = Truncate(text, s.cfg.MaxInputChars)
		if s.cache != nil {
			if vec, ok := s.cache.Get(text, s.cfg.Model); ok {
				results[i] = vec
				continue
			}
		}
		missTexts = append(missTexts, text)
		missIndices = append(missIndices, i)
	}

	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	for i := 0; i < len(missTexts); i += batchSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		end := i + batchSize
		if end > len(missTexts) {
			end = len(missTexts)
		}

		batch := missTexts[i:end]
		embeddings, err := s.client.EmbedBatch(ctx, batch)
		if err != nil {
			return results, wrapUnavailable(s.cfg.Provider, err)
		}

		for j, emb := range embeddings {
			results[missIndices[i+j]] = emb
			if s.cache != nil {
				_ = s.cache.Put(batch[j], s.cfg.Model, emb)
			}
		}
	}

	return results, nil
}

// Dimensions returns the dimension of the embeddings
func (s *Service) Dimensions() int {
	return s.client.Dimensions()
}

func wrapUnavailable(provider string, err error) error {
	if err == nil {
		return nil
	}
	if IsUnavailable(err) {
		return err
	}
	if err == context.Canceled || err == context.DeadlineExceeded {
		return err
	}
	return &UnavailableError{Provider: provider, Err: err}
}

// Truncate keeps the first maxChars runes of text. Section openings carry
// the topic sentence, so truncating the tail loses the least signal.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}

// Similarity computes cosine similarity between two vectors. Defined as 0
// when either vector has zero norm, which guards empty sections. Vectors
// of mismatched dimension score 0 rather than panicking: mixed-model
// cache hits must not take down a run.
func Similarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct float32
	var normA float32
	var normB float32

	for i := 0; i < len(a); i++ {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
