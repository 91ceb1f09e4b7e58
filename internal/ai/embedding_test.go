package ai

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

type fakeEmbedder struct {
	name   string
	vector []float64
	err    error
	lastIn string
	calls  int
}

func (f *fakeEmbedder) Name() string { return f.name }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	f.lastIn = text
	return f.vector, f.err
}

func TestEmbeddingChain_TruncatesInput(t *testing.T) {
	fake := &fakeEmbedder{name: "a", vector: []float64{1}}
	chain := NewEmbeddingChain(nil, fake)

	long := strings.Repeat("ä", embeddingInputLimit+500)
	if _, err := chain.Embed(context.Background(), long); err != nil {
		t.Fatalf("embed: %v", err)
	}
	if got := utf8.RuneCountInString(fake.lastIn); got != embeddingInputLimit {
		t.Fatalf("input runes = %d", got)
	}
}

func TestEmbeddingChain_FallsThroughOnRateLimit(t *testing.T) {
	first := &fakeEmbedder{name: "a", err: ErrRateLimited}
	second := &fakeEmbedder{name: "b", vector: []float64{1, 2}}

	vector, err := NewEmbeddingChain(nil, first, second).Embed(context.Background(), "text")
	if err != nil || len(vector) != 2 {
		t.Fatalf("embed = %v, %v", vector, err)
	}
}

func TestEmbeddingChain_AllFail(t *testing.T) {
	first := &fakeEmbedder{name: "a", err: errors.New("boom")}
	if _, err := NewEmbeddingChain(nil, first).Embed(context.Background(), "text"); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("err = %v", err)
	}
}

func TestEmbeddingChain_EmptyInput(t *testing.T) {
	fake := &fakeEmbedder{name: "a", vector: []float64{1}}
	if _, err := NewEmbeddingChain(nil, fake).Embed(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty input")
	}
	if fake.calls != 0 {
		t.Fatal("provider should not be called for empty input")
	}
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := []float64{0.3, 0.4, 0.5}
		if got := CosineSimilarity(v, v); math.Abs(got-1) > 1e-9 {
			t.Fatalf("cosine = %v", got)
		}
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		if got := CosineSimilarity([]float64{1, 0}, []float64{0, 1}); got != 0 {
			t.Fatalf("cosine = %v", got)
		}
	})

	t.Run("opposite vectors", func(t *testing.T) {
		if got := CosineSimilarity([]float64{1, 1}, []float64{-1, -1}); math.Abs(got+1) > 1e-9 {
			t.Fatalf("cosine = %v", got)
		}
	})

	t.Run("zero vector yields zero", func(t *testing.T) {
		if got := CosineSimilarity([]float64{1, 2}, []float64{0, 0}); got != 0 {
			t.Fatalf("cosine = %v", got)
		}
	})

	t.Run("mismatched lengths use full norms", func(t *testing.T) {
		// Shared prefix is identical but the longer vector's extra mass
		// must still dilute the similarity.
		a := []float64{1, 0}
		b := []float64{1, 0, 3}
		got := CosineSimilarity(a, b)
		want := 1 / math.Sqrt(10)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("cosine = %v, want %v", got, want)
		}
	})
}
