package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"jobtrail/internal/domain/profile"
	"jobtrail/internal/repository"

	"github.com/google/uuid"
)

// defaultProfileData seeds a profile for users who never filled one in,
// when the setting row is also absent.
var defaultProfileData = profileData{
	Skills:      []string{"Shopware", "PHP", "Laravel", "CSS"},
	Experience:  "5 years of full-stack development.",
	Preferences: []string{"Remote Only", "Full-time"},
	Seniority:   "Senior",
	TechStack:   []string{"PHP", "React", "SQLite"},
}

type profileData struct {
	Skills      []string `json:"skills"`
	Experience  string   `json:"experience"`
	Preferences []string `json:"preferences"`
	Seniority   string   `json:"seniority"`
	TechStack   []string `json:"tech_stack"`
}

// UpdateProfileInput carries the mutable profile fields; nil means leave
// unchanged. Document paths are set by the delivery layer after storing
// the uploaded files.
type UpdateProfileInput struct {
	Skills      *[]string
	Experience  *string
	Preferences *[]string
	Seniority   *string
	TechStack   *[]string

	LinkedinLink *string
	GithubLink   *string

	CVPath             *string
	ArbeitszeugnisPath *string
	CertificatePath    *string
	CoverLetterPath    *string
}

type ProfileUsecase interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*profile.Profile, error)
	ReEvaluate(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
}

type ProfileService struct {
	profiles    repository.ProfileRepository
	skills      repository.SkillRepository
	settings    repository.SettingRepository
	completions completionClient
	embeddings  embeddingClient
	logger      *log.Logger
}

func NewProfileUsecase(
	profiles repository.ProfileRepository,
	skills repository.SkillRepository,
	settings repository.SettingRepository,
	completions completionClient,
	embeddings embeddingClient,
	logger *log.Logger,
) *ProfileService {
	return &ProfileService{
		profiles:    profiles,
		skills:      skills,
		settings:    settings,
		completions: completions,
		embeddings:  embeddings,
		logger:      logger,
	}
}

// Get returns the user's profile, creating one from the configured
// default payload on first access.
func (u *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	p, err := u.profiles.FindByUser(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, ErrInternal
	}

	data := defaultProfileData
	if raw, err := u.settings.Get(ctx, SettingDefaultProfileData); err == nil {
		var stored profileData
		if err := json.Unmarshal([]byte(raw), &stored); err == nil {
			data = stored
		}
	}

	p = &profile.Profile{
		UserID:      userID,
		Skills:      data.Skills,
		Experience:  data.Experience,
		Preferences: data.Preferences,
		Seniority:   data.Seniority,
		TechStack:   data.TechStack,
	}
	if err := u.profiles.Create(ctx, p); err != nil {
		return nil, ErrInternal
	}
	return p, nil
}

// Update edits the profile; a change to skills or experience refreshes
// the profile embedding used for semantic scoring.
func (u *ProfileService) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*profile.Profile, error) {
	p, err := u.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Skills != nil {
		p.Skills = *input.Skills
	}
	if input.Experience != nil {
		p.Experience = *input.Experience
	}
	if input.Preferences != nil {
		p.Preferences = *input.Preferences
	}
	if input.Seniority != nil {
		p.Seniority = strings.TrimSpace(*input.Seniority)
	}
	if input.TechStack != nil {
		p.TechStack = *input.TechStack
	}
	if input.LinkedinLink != nil {
		p.LinkedinLink = strings.TrimSpace(*input.LinkedinLink)
	}
	if input.GithubLink != nil {
		p.GithubLink = strings.TrimSpace(*input.GithubLink)
	}
	if input.CVPath != nil {
		p.CVPath = *input.CVPath
	}
	if input.ArbeitszeugnisPath != nil {
		p.ArbeitszeugnisPath = *input.ArbeitszeugnisPath
	}
	if input.CertificatePath != nil {
		p.CertificatePath = *input.CertificatePath
	}
	if input.CoverLetterPath != nil {
		p.CoverLetterPath = *input.CoverLetterPath
	}

	if input.Skills != nil || input.Experience != nil {
		u.refreshEmbedding(ctx, p)
	}

	if err := u.profiles.Update(ctx, p); err != nil {
		return nil, ErrInternal
	}
	return p, nil
}

// ReEvaluate asks the AI chain to extract skills from the stored
// experience and merges them into the profile. Without a usable AI
// response it falls back to the heuristic vocabulary.
func (u *ProfileService) ReEvaluate(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	p, err := u.profiles.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}

	if extracted := u.extractSkillsWithAI(ctx, p); len(extracted) > 0 {
		p.Skills = mergeUnique(p.Skills, extracted)
		u.refreshEmbedding(ctx, p)
		if err := u.profiles.Update(ctx, p); err != nil {
			return nil, ErrInternal
		}
		return p, nil
	}

	// Fallback: adopt vocabulary entries the profile does not declare yet.
	records, err := u.skills.GetAllSkills(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	declared := make(map[string]struct{}, len(p.Skills))
	for _, s := range p.Skills {
		declared[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	var discovered []string
	for _, r := range records {
		if _, ok := declared[strings.ToLower(strings.TrimSpace(r.Name))]; !ok {
			discovered = append(discovered, r.Name)
		}
	}

	if len(discovered) > 0 {
		p.Skills = mergeUnique(p.Skills, discovered)
		u.refreshEmbedding(ctx, p)
		if err := u.profiles.Update(ctx, p); err != nil {
			return nil, ErrInternal
		}
	}
	return p, nil
}

func (u *ProfileService) extractSkillsWithAI(ctx context.Context, p *profile.Profile) []string {
	if u.completions == nil {
		return nil
	}

	template, err := u.settings.Get(ctx, SettingSkillExtractionPrompt)
	if err != nil {
		template = defaultSkillExtractionPrompt
	}
	prompt := strings.NewReplacer(
		"{experience}", p.Experience,
		"{existing_skills}", strings.Join(p.Skills, ", "),
	).Replace(template)

	raw, err := u.completions.Complete(ctx, skillExtractionSystemPrompt, prompt)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Profile] skill extraction failed user=%s err=%v", p.UserID, err)
		}
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (u *ProfileService) refreshEmbedding(ctx context.Context, p *profile.Profile) {
	if u.embeddings == nil {
		return
	}
	text := p.EmbeddingText()
	if text == "" {
		return
	}
	embedding, err := u.embeddings.Embed(ctx, text)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Profile] embedding refresh failed user=%s err=%v", p.UserID, err)
		}
		return
	}
	p.Embedding = embedding
}

func mergeUnique(existing, added []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(added))
	out := make([]string, 0, len(existing)+len(added))
	for _, s := range append(append([]string{}, existing...), added...) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
