package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testOpenAIProvider(t *testing.T, handler http.HandlerFunc, heliconeKey string) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewOpenAIProvider("sk-test", "gpt-4o-mini", heliconeKey, 2*time.Second, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	p.baseURL = srv.URL
	return p
}

func TestOpenAIComplete(t *testing.T) {
	p := testOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}

		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"match_score\": 55}"}}]}`)
	}, "")

	out, err := p.Complete(context.Background(), "recruiter", "analyze this")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != `{"match_score": 55}` {
		t.Fatalf("out = %q", out)
	}
}

func TestOpenAIComplete_HeliconeHeader(t *testing.T) {
	p := testOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Helicone-Auth"); got != "Bearer hl-key" {
			t.Errorf("helicone auth = %q", got)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}, "hl-key")

	if _, err := p.Complete(context.Background(), "", "prompt"); err != nil {
		t.Fatalf("complete: %v", err)
	}
}

func TestOpenAIComplete_RateLimited(t *testing.T) {
	p := testOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}, "")

	if _, err := p.Complete(context.Background(), "", "prompt"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v", err)
	}
}

func TestOpenAIComplete_ServerError(t *testing.T) {
	p := testOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "broken", http.StatusInternalServerError)
	}, "")

	_, err := p.Complete(context.Background(), "", "prompt")
	if err == nil || errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v", err)
	}
}

func TestOpenAIEmbed(t *testing.T) {
	p := testOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != openAIEmbeddingModel {
			t.Errorf("model = %q", req.Model)
		}
		fmt.Fprint(w, `{"data":[{"embedding":[0.1,0.2,0.3]}]}`)
	}, "")

	vector, err := p.Embed(context.Background(), "profile text")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vector) != 3 || vector[1] != 0.2 {
		t.Fatalf("vector = %v", vector)
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider("", "gpt-4o-mini", "", time.Second, nil); err == nil {
		t.Fatal("expected error for missing key")
	}
}
