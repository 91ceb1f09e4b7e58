package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"jobtrail/internal/domain/profile"
	"jobtrail/internal/repository"

	"github.com/google/uuid"
)

type profileFixture struct {
	usecase    *ProfileService
	profiles   *fakeProfileRepo
	skills     *fakeSkillRepo
	settings   *fakeSettingRepo
	completion *fakeCompletion
	embedding  *fakeEmbedding
}

func newProfileFixture() *profileFixture {
	f := &profileFixture{
		profiles:   newFakeProfileRepo(),
		skills:     &fakeSkillRepo{},
		settings:   newFakeSettingRepo(),
		completion: &fakeCompletion{},
		embedding:  &fakeEmbedding{vector: []float64{0.5}},
	}
	f.usecase = NewProfileUsecase(f.profiles, f.skills, f.settings, f.completion, f.embedding, nil)
	return f
}

func TestProfileGet_CreatesHardcodedDefault(t *testing.T) {
	f := newProfileFixture()
	userID := uuid.New()

	p, err := f.usecase.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(p.Skills, []string{"Shopware", "PHP", "Laravel", "CSS"}) {
		t.Fatalf("skills = %v", p.Skills)
	}
	if p.Experience != "5 years of full-stack development." {
		t.Fatalf("experience = %q", p.Experience)
	}
	if p.Seniority != "Senior" {
		t.Fatalf("seniority = %q", p.Seniority)
	}
	if _, ok := f.profiles.profiles[userID]; !ok {
		t.Fatal("default profile not persisted")
	}
}

func TestProfileGet_CreatesFromConfiguredDefault(t *testing.T) {
	f := newProfileFixture()
	f.settings.values[SettingDefaultProfileData] = `{"skills":["Go"],"experience":"Two years.","preferences":["Hybrid"],"seniority":"Mid","tech_stack":["Go","PostgreSQL"]}`
	userID := uuid.New()

	p, err := f.usecase.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(p.Skills, []string{"Go"}) || p.Seniority != "Mid" {
		t.Fatalf("profile = %+v", p)
	}
}

func TestProfileGet_ReturnsExisting(t *testing.T) {
	f := newProfileFixture()
	userID := uuid.New()
	f.profiles.profiles[userID] = &profile.Profile{UserID: userID, Skills: []string{"Rust"}}

	p, err := f.usecase.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(p.Skills, []string{"Rust"}) {
		t.Fatalf("skills = %v", p.Skills)
	}
}

func TestProfileUpdate_RefreshesEmbeddingOnSkillsOrExperience(t *testing.T) {
	f := newProfileFixture()
	userID := uuid.New()
	f.profiles.profiles[userID] = &profile.Profile{UserID: userID, Skills: []string{"Go"}, Experience: "Backend work."}

	link := "https://linkedin.example/in/jane"
	p, err := f.usecase.Update(context.Background(), userID, UpdateProfileInput{LinkedinLink: &link})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if f.embedding.calls != 0 {
		t.Fatalf("embed calls = %d after link-only update", f.embedding.calls)
	}
	if p.LinkedinLink != link {
		t.Fatalf("linkedin = %q", p.LinkedinLink)
	}

	skills := []string{"Go", "Kubernetes"}
	p, err = f.usecase.Update(context.Background(), userID, UpdateProfileInput{Skills: &skills})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if f.embedding.calls != 1 {
		t.Fatalf("embed calls = %d after skills update", f.embedding.calls)
	}
	if !reflect.DeepEqual(p.Embedding, []float64{0.5}) {
		t.Fatalf("embedding = %v", p.Embedding)
	}

	stored := f.profiles.profiles[userID]
	if !reflect.DeepEqual(stored.Skills, skills) {
		t.Fatalf("stored skills = %v", stored.Skills)
	}
}

func TestProfileUpdate_EmbeddingFailureIsNonFatal(t *testing.T) {
	f := newProfileFixture()
	f.embedding.err = errBoom
	userID := uuid.New()
	f.profiles.profiles[userID] = &profile.Profile{UserID: userID}

	experience := "Ten years of infrastructure."
	p, err := f.usecase.Update(context.Background(), userID, UpdateProfileInput{Experience: &experience})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Experience != experience {
		t.Fatalf("experience = %q", p.Experience)
	}
	if p.Embedding != nil {
		t.Fatalf("embedding = %v", p.Embedding)
	}
}

func TestProfileReEvaluate_RequiresExistingProfile(t *testing.T) {
	f := newProfileFixture()
	if _, err := f.usecase.ReEvaluate(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestProfileReEvaluate_MergesAIExtractedSkills(t *testing.T) {
	f := newProfileFixture()
	f.completion.out = " Kubernetes , Go,Terraform,"
	userID := uuid.New()
	f.profiles.profiles[userID] = &profile.Profile{UserID: userID, Skills: []string{"Go", "PostgreSQL"}, Experience: "Infra work."}

	p, err := f.usecase.ReEvaluate(context.Background(), userID)
	if err != nil {
		t.Fatalf("re-evaluate: %v", err)
	}
	want := []string{"Go", "PostgreSQL", "Kubernetes", "Terraform"}
	if !reflect.DeepEqual(p.Skills, want) {
		t.Fatalf("skills = %v, want %v", p.Skills, want)
	}
	if f.embedding.calls != 1 {
		t.Fatalf("embed calls = %d", f.embedding.calls)
	}
}

func TestProfileReEvaluate_FallsBackToVocabulary(t *testing.T) {
	f := newProfileFixture()
	f.completion.err = errBoom
	f.skills.skills = []repository.Skill{
		{ID: uuid.New(), Keyword: "golang", Name: "Go"},
		{ID: uuid.New(), Keyword: "kubernetes", Name: "Kubernetes"},
	}
	userID := uuid.New()
	f.profiles.profiles[userID] = &profile.Profile{UserID: userID, Skills: []string{"go"}, Experience: "Infra work."}

	p, err := f.usecase.ReEvaluate(context.Background(), userID)
	if err != nil {
		t.Fatalf("re-evaluate: %v", err)
	}
	// "go" is already declared (case-insensitively), so only Kubernetes
	// comes in from the vocabulary.
	want := []string{"go", "Kubernetes"}
	if !reflect.DeepEqual(p.Skills, want) {
		t.Fatalf("skills = %v, want %v", p.Skills, want)
	}
}

func TestProfileReEvaluate_CustomExtractionTemplate(t *testing.T) {
	f := newProfileFixture()
	f.completion.out = "Rust"
	f.settings.values[SettingSkillExtractionPrompt] = "list skills in: {experience} besides {existing_skills}"
	userID := uuid.New()
	f.profiles.profiles[userID] = &profile.Profile{UserID: userID, Skills: []string{"Go"}, Experience: "Systems work."}

	p, err := f.usecase.ReEvaluate(context.Background(), userID)
	if err != nil {
		t.Fatalf("re-evaluate: %v", err)
	}
	if f.completion.calls != 1 {
		t.Fatalf("completion calls = %d", f.completion.calls)
	}
	if !reflect.DeepEqual(p.Skills, []string{"Go", "Rust"}) {
		t.Fatalf("skills = %v", p.Skills)
	}
}
