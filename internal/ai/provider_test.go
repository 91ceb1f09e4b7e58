package ai

import (
	"context"
	"errors"
	"testing"
)

type fakeProvider struct {
	name  string
	out   string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return f.out, f.err
}

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &fakeProvider{name: "a", out: `{"match_score": 70}`}
	second := &fakeProvider{name: "b", out: "unused"}

	out, err := NewChain(nil, first, second).Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != `{"match_score": 70}` {
		t.Fatalf("out = %q", out)
	}
	if second.calls != 0 {
		t.Fatal("second provider should not be consulted")
	}
}

func TestChain_RateLimitFallsThrough(t *testing.T) {
	first := &fakeProvider{name: "a", err: ErrRateLimited}
	second := &fakeProvider{name: "b", out: "fallback"}

	out, err := NewChain(nil, first, second).Complete(context.Background(), "", "user")
	if err != nil || out != "fallback" {
		t.Fatalf("complete = %q, %v", out, err)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Fatalf("calls = %d, %d", first.calls, second.calls)
	}
}

func TestChain_ProviderErrorFallsThrough(t *testing.T) {
	first := &fakeProvider{name: "a", err: errors.New("boom")}
	second := &fakeProvider{name: "b", out: "fallback"}

	out, err := NewChain(nil, first, second).Complete(context.Background(), "", "user")
	if err != nil || out != "fallback" {
		t.Fatalf("complete = %q, %v", out, err)
	}
}

func TestChain_AllProvidersFail(t *testing.T) {
	first := &fakeProvider{name: "a", err: ErrRateLimited}
	second := &fakeProvider{name: "b", err: errors.New("boom")}

	_, err := NewChain(nil, first, second).Complete(context.Background(), "", "user")
	if !errors.Is(err, ErrNoProvider) {
		t.Fatalf("err = %v", err)
	}
}

func TestChain_NilProvidersSkipped(t *testing.T) {
	only := &fakeProvider{name: "a", out: "ok"}
	out, err := NewChain(nil, nil, only, nil).Complete(context.Background(), "", "user")
	if err != nil || out != "ok" {
		t.Fatalf("complete = %q, %v", out, err)
	}
}

func TestChain_EmptyChain(t *testing.T) {
	if _, err := NewChain(nil).Complete(context.Background(), "", "user"); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("err = %v", err)
	}
}
