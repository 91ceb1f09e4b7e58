package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const geminiEmbeddingModel = "gemini-embedding-001"

// geminiModels is the slice of the GenAI client this package uses,
// narrowed so tests can substitute a fake.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// GeminiProvider serves completions and embeddings from the Gemini API,
// cycling through model variants when one is unavailable.
type GeminiProvider struct {
	models     geminiModels
	modelNames []string
	logger     *log.Logger
}

func NewGeminiProvider(ctx context.Context, apiKey string, modelNames []string, logger *log.Logger) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	if len(modelNames) == 0 {
		return nil, errors.New("at least one gemini model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiProvider{models: client.Models, modelNames: modelNames, logger: logger}, nil
}

func (g *GeminiProvider) Name() string { return "gemini" }

// Complete tries each configured model variant in order. A model that is
// rate limited or errors out falls through to the next variant; the
// provider reports ErrRateLimited only when every variant was throttled.
func (g *GeminiProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}}
	}

	rateLimited := 0
	var lastErr error
	for _, model := range g.modelNames {
		resp, err := g.models.GenerateContent(ctx, model, genai.Text(userPrompt), cfg)
		if err != nil {
			if isGeminiRateLimit(err) {
				rateLimited++
				lastErr = ErrRateLimited
				continue
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if g.logger != nil {
				g.logger.Printf("[Gemini] generate failed model=%s err=%v", model, err)
			}
			lastErr = err
			continue
		}

		out := collectText(resp)
		if out == "" {
			lastErr = fmt.Errorf("model %s returned empty response", model)
			continue
		}
		return out, nil
	}

	if rateLimited == len(g.modelNames) {
		return "", ErrRateLimited
	}
	if lastErr == nil {
		lastErr = errors.New("no gemini model produced output")
	}
	return "", lastErr
}

// Embed returns the embedding vector for text using the Gemini embedding
// model.
func (g *GeminiProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := g.models.EmbedContent(ctx, geminiEmbeddingModel, genai.Text(text), nil)
	if err != nil {
		if isGeminiRateLimit(err) {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("gemini embed: empty embedding response")
	}

	values := resp.Embeddings[0].Values
	vector := make([]float64, len(values))
	for i, v := range values {
		vector[i] = float64(v)
	}
	return vector, nil
}

func isGeminiRateLimit(err error) bool {
	var apiErr genai.APIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}
