package ai

import (
	"context"
	"errors"
	"log"
	"math"
	"unicode/utf8"
)

// embeddingInputLimit bounds the text sent to embedding endpoints.
const embeddingInputLimit = 8000

// EmbeddingProvider produces a vector representation of a text.
type EmbeddingProvider interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float64, error)
}

// EmbeddingChain tries embedding providers in configured order, feeding
// each a bounded slice of the input text.
type EmbeddingChain struct {
	providers []EmbeddingProvider
	logger    *log.Logger
}

func NewEmbeddingChain(logger *log.Logger, providers ...EmbeddingProvider) *EmbeddingChain {
	active := make([]EmbeddingProvider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			active = append(active, p)
		}
	}
	return &EmbeddingChain{providers: active, logger: logger}
}

func (c *EmbeddingChain) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, errors.New("embedding input is empty")
	}
	if len(c.providers) == 0 {
		return nil, ErrNoProvider
	}

	text = truncateRunes(text, embeddingInputLimit)

	for _, p := range c.providers {
		vector, err := p.Embed(ctx, text)
		if err == nil {
			return vector, nil
		}
		if errors.Is(err, ErrRateLimited) {
			if c.logger != nil {
				c.logger.Printf("[EmbeddingChain] provider rate limited provider=%s", p.Name())
			}
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.logger != nil {
			c.logger.Printf("[EmbeddingChain] provider failed provider=%s err=%v", p.Name(), err)
		}
	}
	return nil, ErrNoProvider
}

// CosineSimilarity computes the cosine of the angle between a and b. The
// dot product runs over the shared prefix when lengths differ, while the
// norms cover each full vector. A zero-norm vector yields 0.
func CosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}

	var normA, normB float64
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
