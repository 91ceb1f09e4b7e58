package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	openAIBaseURL   = "https://api.openai.com/v1"
	heliconeBaseURL = "https://oai.helicone.ai/v1"

	openAIEmbeddingModel = "text-embedding-3-small"
)

// OpenAIProvider serves completions and embeddings from the OpenAI chat
// and embeddings endpoints. When a Helicone key is configured, traffic is
// routed through the Helicone gateway for observability.
type OpenAIProvider struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	heliconeKey string
	baseURL     string
	logger      *log.Logger
}

func NewOpenAIProvider(apiKey, model, heliconeKey string, timeout time.Duration, logger *log.Logger) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	baseURL := openAIBaseURL
	if heliconeKey != "" {
		baseURL = heliconeBaseURL
	}

	return &OpenAIProvider{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      apiKey,
		model:       model,
		heliconeKey: heliconeKey,
		baseURL:     baseURL,
		logger:      logger,
	}, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	body, err := p.post(ctx, "/chat/completions", chatRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	out := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("openai returned empty content")
	}
	return out, nil
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for text from the OpenAI embeddings
// endpoint.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := p.post(ctx, "/embeddings", embeddingRequest{
		Model: openAIEmbeddingModel,
		Input: text,
	})
	if err != nil {
		return nil, err
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, errors.New("openai returned empty embedding")
	}
	return parsed.Data[0].Embedding, nil
}

func (p *OpenAIProvider) post(ctx context.Context, path string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	if p.heliconeKey != "" {
		req.Header.Set("Helicone-Auth", "Bearer "+p.heliconeKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if p.logger != nil {
			p.logger.Printf("[OpenAI] request failed path=%s status=%d", path, resp.StatusCode)
		}
		return nil, fmt.Errorf("openai status %d", resp.StatusCode)
	}
	return body, nil
}
