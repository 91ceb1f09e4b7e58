package ai

import (
	"context"
	"errors"
	"log"
)

// ErrRateLimited marks a provider failure caused by quota exhaustion. The
// chain treats it as an expected condition and moves on without noise.
var ErrRateLimited = errors.New("ai provider rate limited")

// ErrNoProvider is returned when every configured provider failed.
var ErrNoProvider = errors.New("all ai providers failed")

// CompletionProvider produces a raw text completion for a prompt pair.
type CompletionProvider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Chain tries completion providers in configured order and returns the
// first successful response.
type Chain struct {
	providers []CompletionProvider
	logger    *log.Logger
}

func NewChain(logger *log.Logger, providers ...CompletionProvider) *Chain {
	active := make([]CompletionProvider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			active = append(active, p)
		}
	}
	return &Chain{providers: active, logger: logger}
}

// Complete walks the chain until a provider answers. Rate limits and
// other provider errors both fall through to the next provider; only the
// latter are logged as failures.
func (c *Chain) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrNoProvider
	}

	for _, p := range c.providers {
		out, err := p.Complete(ctx, systemPrompt, userPrompt)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, ErrRateLimited) {
			c.printf("[AIChain] provider rate limited provider=%s", p.Name())
			continue
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.printf("[AIChain] provider failed provider=%s err=%v", p.Name(), err)
	}
	return "", ErrNoProvider
}

func (c *Chain) printf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
