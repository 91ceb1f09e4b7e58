package usecase

import (
	"context"
	"math"
	"strings"
	"testing"

	"jobtrail/internal/config"
	"jobtrail/internal/domain/job"
	"jobtrail/internal/domain/profile"
	"jobtrail/internal/repository"

	"github.com/google/uuid"
)

func analysisFixture(fetchBody string, completions completionClient, embeddings embeddingClient, policy config.SemanticScorePolicy) (*AnalysisService, *fakeProfileRepo, *fakeSkillRepo, *fakeSettingRepo) {
	profiles := newFakeProfileRepo()
	skills := &fakeSkillRepo{skills: []repository.Skill{
		{ID: uuid.New(), Keyword: "golang", Name: "Go"},
		{ID: uuid.New(), Keyword: "php", Name: "PHP"},
		{ID: uuid.New(), Keyword: "kubernetes", Name: "Kubernetes"},
	}}
	settings := newFakeSettingRepo()
	svc := NewAnalysisService(&fakeFetcher{body: fetchBody}, completions, embeddings, profiles, skills, settings, nil, policy, nil)
	return svc, profiles, skills, settings
}

func TestAnalyze_AIPath(t *testing.T) {
	completion := &fakeCompletion{out: `Here you go:
{"match_score": "High", "highlights": ["Go"], "missing_skills": ["Kubernetes"], "position": "Platform Engineer", "company_name": "Dsb Ccb Solutions GmbH"}`}
	embedding := &fakeEmbedding{vector: []float64{1, 0}}

	svc, profiles, _, _ := analysisFixture(
		`<html><head><title>Engineer at Onlyfy</title></head><body>golang kubernetes</body></html>`,
		completion, embedding, config.SemanticProfileGated,
	)

	userID := uuid.New()
	profiles.profiles[userID] = &profile.Profile{UserID: userID, Skills: []string{"Go"}, Embedding: []float64{1, 0}}

	got, err := svc.Analyze(context.Background(), userID, "https://jobs.example.com/1")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if got.CompanyName != "Dsb Ccb Solutions GmbH" {
		t.Fatalf("company = %q", got.CompanyName)
	}
	if got.Position != "Platform Engineer" {
		t.Fatalf("position = %q", got.Position)
	}
	if got.MatchScore != job.TierHigh {
		t.Fatalf("match score = %q", got.MatchScore)
	}
	if len(got.MissingSkills) != 1 || got.MissingSkills[0] != "Kubernetes" {
		t.Fatalf("missing = %v", got.MissingSkills)
	}
	if math.Abs(got.SemanticScore-1) > 1e-9 {
		t.Fatalf("semantic score = %v", got.SemanticScore)
	}
	if len(got.Embedding) != 2 {
		t.Fatalf("embedding = %v", got.Embedding)
	}
}

func TestAnalyze_AIDefaultsApplied(t *testing.T) {
	// Valid JSON missing most keys keeps extracted metadata and the
	// documented defaults.
	completion := &fakeCompletion{out: `{"match_score": ""}`}
	svc, _, _, _ := analysisFixture(
		`<html><head><title>Backend Engineer at Globex</title></head><body>text</body></html>`,
		completion, nil, config.SemanticProfileGated,
	)

	got, err := svc.Analyze(context.Background(), uuid.New(), "https://globex.example/jobs")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got.CompanyName != "Globex" {
		t.Fatalf("company = %q", got.CompanyName)
	}
	if got.Position != "Backend Engineer" {
		t.Fatalf("position = %q", got.Position)
	}
	if got.MatchScore != "Medium" {
		t.Fatalf("match score = %q", got.MatchScore)
	}
	if len(got.Highlights) != 1 || got.Highlights[0] != "Matching Interests" {
		t.Fatalf("highlights = %v", got.Highlights)
	}
	if got.MissingSkills == nil || len(got.MissingSkills) != 0 {
		t.Fatalf("missing = %#v", got.MissingSkills)
	}
}

func TestAnalyze_MalformedAIResponseFallsBackToHeuristics(t *testing.T) {
	completion := &fakeCompletion{out: "I could not produce JSON, sorry."}
	svc, profiles, _, _ := analysisFixture(
		`<html><head><title>Engineer at Acme</title></head><body>We use golang daily.</body></html>`,
		completion, nil, config.SemanticProfileGated,
	)

	userID := uuid.New()
	profiles.profiles[userID] = &profile.Profile{UserID: userID, Skills: []string{"Go"}}

	got, err := svc.Analyze(context.Background(), userID, "https://acme.example/jobs/1")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	// Heuristics: one detected vocabulary entry, declared by the user.
	if got.MatchScore != job.TierHigh {
		t.Fatalf("match score = %q", got.MatchScore)
	}
	if len(got.Highlights) != 1 || got.Highlights[0] != "Go" {
		t.Fatalf("highlights = %v", got.Highlights)
	}
}

func TestAnalyze_FetchFailureDegradesToHostCompany(t *testing.T) {
	svc, _, _, _ := analysisFixture("", nil, nil, config.SemanticProfileGated)

	got, err := svc.Analyze(context.Background(), uuid.New(), "https://www.globex.com/careers/42")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got.CompanyName != "Globex" {
		t.Fatalf("company = %q", got.CompanyName)
	}
	if got.Position != "Software Engineer" {
		t.Fatalf("position = %q", got.Position)
	}
	if got.MatchScore != job.TierLow {
		t.Fatalf("match score = %q", got.MatchScore)
	}
	if got.Description != "Analyzed from https://www.globex.com/careers/42" {
		t.Fatalf("description = %q", got.Description)
	}
	if len(got.Highlights) != 1 || got.Highlights[0] != "Matching Interests" {
		t.Fatalf("highlights = %v", got.Highlights)
	}
}

func TestAnalyze_DefaultSkillsWithoutProfile(t *testing.T) {
	svc, _, _, _ := analysisFixture(
		`<html><head><title>Dev at Acme</title></head><body>php shop</body></html>`,
		nil, nil, config.SemanticProfileGated,
	)

	got, err := svc.Analyze(context.Background(), uuid.New(), "https://acme.example/jobs")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	// PHP is in the default skill set, so the single detection matches.
	if got.MatchScore != job.TierHigh {
		t.Fatalf("match score = %q", got.MatchScore)
	}
	if len(got.Highlights) != 1 || got.Highlights[0] != "PHP" {
		t.Fatalf("highlights = %v", got.Highlights)
	}
}

func TestAnalyze_HeuristicEmployerRefinement(t *testing.T) {
	svc, _, _, _ := analysisFixture(
		`<html><head><title>Dev at JobPortal</title></head><body>Working at Initech GmbH in Berlin.</body></html>`,
		nil, nil, config.SemanticProfileGated,
	)

	got, err := svc.Analyze(context.Background(), uuid.New(), "https://portal.example/jobs")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(got.CompanyName, "GmbH") {
		t.Fatalf("company = %q", got.CompanyName)
	}
}

func TestAnalyze_SemanticScorePolicy(t *testing.T) {
	t.Run("profile gated skips embedding without profile embedding", func(t *testing.T) {
		embedding := &fakeEmbedding{vector: []float64{1}}
		svc, _, _, _ := analysisFixture(`<html><body>text</body></html>`, nil, embedding, config.SemanticProfileGated)

		got, err := svc.Analyze(context.Background(), uuid.New(), "https://acme.example/j")
		if err != nil {
			t.Fatalf("analyze: %v", err)
		}
		if embedding.calls != 0 {
			t.Fatalf("embed calls = %d", embedding.calls)
		}
		if got.SemanticScore != 0 || got.Embedding != nil {
			t.Fatalf("semantic = %v, embedding = %v", got.SemanticScore, got.Embedding)
		}
	})

	t.Run("always embeds even without profile embedding", func(t *testing.T) {
		embedding := &fakeEmbedding{vector: []float64{1}}
		svc, _, _, _ := analysisFixture(`<html><body>text</body></html>`, nil, embedding, config.SemanticAlways)

		got, err := svc.Analyze(context.Background(), uuid.New(), "https://acme.example/j")
		if err != nil {
			t.Fatalf("analyze: %v", err)
		}
		if embedding.calls != 1 {
			t.Fatalf("embed calls = %d", embedding.calls)
		}
		if got.SemanticScore != 0 {
			t.Fatalf("semantic = %v", got.SemanticScore)
		}
		if len(got.Embedding) != 1 {
			t.Fatalf("embedding = %v", got.Embedding)
		}
	})
}

func TestAnalyze_ResultCachedPerUserAndLink(t *testing.T) {
	completion := &fakeCompletion{out: `{"match_score": "High", "company_name": "Acme", "position": "Dev"}`}
	profiles := newFakeProfileRepo()
	skills := &fakeSkillRepo{}
	settings := newFakeSettingRepo()
	cached := newFakeJobCache()
	svc := NewAnalysisService(
		&fakeFetcher{body: `<html><head><title>Dev at Acme</title></head><body>golang</body></html>`},
		completion, nil, profiles, skills, settings, cached, config.SemanticProfileGated, nil,
	)

	userID := uuid.New()
	first, err := svc.Analyze(context.Background(), userID, "https://acme.example/j/1")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	second, err := svc.Analyze(context.Background(), userID, "https://acme.example/j/1")
	if err != nil {
		t.Fatalf("analyze again: %v", err)
	}
	if completion.calls != 1 {
		t.Fatalf("completion calls = %d", completion.calls)
	}
	if second.CompanyName != first.CompanyName || second.MatchScore != first.MatchScore {
		t.Fatalf("cached result diverged: %+v vs %+v", second, first)
	}

	// A different link for the same user misses the cache.
	if _, err := svc.Analyze(context.Background(), userID, "https://acme.example/j/2"); err != nil {
		t.Fatalf("analyze other link: %v", err)
	}
	if completion.calls != 2 {
		t.Fatalf("completion calls = %d", completion.calls)
	}

	// So does the same link for another user.
	if _, err := svc.Analyze(context.Background(), uuid.New(), "https://acme.example/j/1"); err != nil {
		t.Fatalf("analyze other user: %v", err)
	}
	if completion.calls != 3 {
		t.Fatalf("completion calls = %d", completion.calls)
	}
}

func TestAnalyze_CustomPromptTemplateUsed(t *testing.T) {
	completion := &fakeCompletion{err: errBoom}
	svc, _, _, settings := analysisFixture(`<html><body>golang</body></html>`, completion, nil, config.SemanticProfileGated)
	settings.values[SettingAnalysisPrompt] = "short template {position}"

	if _, err := svc.Analyze(context.Background(), uuid.New(), "https://acme.example/j"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if completion.calls != 1 {
		t.Fatalf("completion calls = %d", completion.calls)
	}
}

func TestClipJSON(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{`prose {"a": {"b": 2}} trailing`, `{"a": {"b": 2}}`},
		{"no json at all", "no json at all"},
	}
	for _, c := range cases {
		if got := clipJSON(c.in); got != c.want {
			t.Errorf("clipJSON(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
