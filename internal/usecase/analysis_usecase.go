package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"jobtrail/internal/ai"
	"jobtrail/internal/analyzer"
	"jobtrail/internal/config"
	"jobtrail/internal/domain/profile"
	"jobtrail/internal/repository"

	"github.com/google/uuid"
)

const analysisCacheTTL = 10 * time.Minute

// defaultProfileSkills stands in when the user has no stored profile yet.
var defaultProfileSkills = []string{"React", "PHP", "Laravel", "JavaScript", "MySQL"}

// Analysis is the outcome of analyzing one apply link.
type Analysis struct {
	CompanyName   string
	Position      string
	Description   string
	MatchScore    string
	Highlights    []string
	MissingSkills []string
	Embedding     []float64
	SemanticScore float64
}

type contentFetcher interface {
	Fetch(ctx context.Context, rawURL string) string
}

type completionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type embeddingClient interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

type analysisCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type AnalysisUsecase interface {
	Analyze(ctx context.Context, userID uuid.UUID, rawURL string) (*Analysis, error)
}

// AnalysisService runs the full pipeline: fetch, extract, AI analysis
// with heuristic fallback, then embedding-based semantic scoring.
type AnalysisService struct {
	fetcher     contentFetcher
	completions completionClient
	embeddings  embeddingClient
	profiles    repository.ProfileRepository
	skills      repository.SkillRepository
	settings    repository.SettingRepository
	cache       analysisCache
	policy      config.SemanticScorePolicy
	logger      *log.Logger
}

func NewAnalysisService(
	fetcher contentFetcher,
	completions completionClient,
	embeddings embeddingClient,
	profiles repository.ProfileRepository,
	skills repository.SkillRepository,
	settings repository.SettingRepository,
	cache analysisCache,
	policy config.SemanticScorePolicy,
	logger *log.Logger,
) *AnalysisService {
	return &AnalysisService{
		fetcher:     fetcher,
		completions: completions,
		embeddings:  embeddings,
		profiles:    profiles,
		skills:      skills,
		settings:    settings,
		cache:       cache,
		policy:      policy,
		logger:      logger,
	}
}

// aiAnalysis is the JSON shape the analysis prompt asks the model for.
// Unknown or missing keys fall back to the extracted metadata.
type aiAnalysis struct {
	MatchScore    string   `json:"match_score"`
	Highlights    []string `json:"highlights"`
	MissingSkills []string `json:"missing_skills"`
	Position      string   `json:"position"`
	CompanyName   string   `json:"company_name"`
}

// Analyze never fails on fetch, extraction or provider errors: every
// stage degrades to the next fallback so a result always comes back.
// Results are cached briefly per (user, url); profile edits and rejection
// cascades invalidate the user's analysis keys.
func (s *AnalysisService) Analyze(ctx context.Context, userID uuid.UUID, rawURL string) (*Analysis, error) {
	cacheKey := analysisCacheKey(userID, rawURL)
	if s.cache != nil {
		var cached Analysis
		if ok, _ := s.cache.GetJSON(ctx, cacheKey, &cached); ok {
			return &cached, nil
		}
	}

	userProfile := s.loadProfile(ctx, userID)
	userSkills := userProfile.NormalizedSkills()

	html := s.fetcher.Fetch(ctx, rawURL)
	meta := analyzer.Extract(html, rawURL)

	var result *Analysis
	if s.completions != nil {
		result = s.analyzeWithAI(ctx, meta, rawURL, userSkills, userProfile)
	}
	if result == nil {
		heuristic, err := s.analyzeHeuristically(ctx, meta, html, rawURL, userSkills, userProfile)
		if err != nil {
			return nil, err
		}
		result = heuristic
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cacheKey, result, analysisCacheTTL)
	}
	return result, nil
}

func analysisCacheKey(userID uuid.UUID, rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return "analysis:" + userID.String() + ":" + hex.EncodeToString(sum[:])
}

func (s *AnalysisService) loadProfile(ctx context.Context, userID uuid.UUID) *profile.Profile {
	p, err := s.profiles.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) && s.logger != nil {
			s.logger.Printf("[Analysis] profile load failed user=%s err=%v", userID, err)
		}
		return &profile.Profile{UserID: userID, Skills: defaultProfileSkills}
	}
	return p
}

func (s *AnalysisService) analyzeWithAI(ctx context.Context, meta analyzer.Metadata, rawURL string, userSkills []string, userProfile *profile.Profile) *Analysis {
	template, err := s.settings.Get(ctx, SettingAnalysisPrompt)
	if err != nil {
		template = defaultAnalysisPrompt
	}

	prompt := strings.NewReplacer(
		"{position}", meta.Position,
		"{company_name}", meta.CompanyName,
		"{description}", meta.Description,
		"{user_skills}", strings.Join(userSkills, ", "),
	).Replace(template)

	raw, err := s.completions.Complete(ctx, analysisSystemPrompt, prompt)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Analysis] ai analysis failed url=%s err=%v", rawURL, err)
		}
		return nil
	}

	var decoded aiAnalysis
	if err := json.Unmarshal([]byte(clipJSON(raw)), &decoded); err != nil {
		if s.logger != nil {
			s.logger.Printf("[Analysis] ai response not parseable url=%s err=%v", rawURL, err)
		}
		return nil
	}

	result := &Analysis{
		CompanyName:   firstNonEmpty(decoded.CompanyName, meta.CompanyName),
		Position:      firstNonEmpty(decoded.Position, meta.Position),
		Description:   descriptionOrPlaceholder(meta.Description, rawURL),
		MatchScore:    firstNonEmpty(decoded.MatchScore, "Medium"),
		Highlights:    decoded.Highlights,
		MissingSkills: decoded.MissingSkills,
	}
	if len(result.Highlights) == 0 {
		result.Highlights = []string{analyzer.PlaceholderHighlight}
	}
	if result.MissingSkills == nil {
		result.MissingSkills = []string{}
	}

	result.Embedding, result.SemanticScore = s.semanticScore(ctx, meta.Description, userProfile, true)
	return result
}

func (s *AnalysisService) analyzeHeuristically(ctx context.Context, meta analyzer.Metadata, html, rawURL string, userSkills []string, userProfile *profile.Profile) (*Analysis, error) {
	companyName := meta.CompanyName
	if refined, ok := analyzer.RefineCompanyFromDescription(meta.Description); ok {
		companyName = refined
	}

	vocab := s.loadVocabulary(ctx)
	text := strings.ToLower(html + " " + rawURL + " " + meta.PageTitle + " " + meta.Description)
	match := analyzer.MatchSkills(text, vocab, userSkills)

	result := &Analysis{
		CompanyName:   companyName,
		Position:      meta.Position,
		Description:   descriptionOrPlaceholder(meta.Description, rawURL),
		MatchScore:    match.Tier,
		Highlights:    match.Highlights(),
		MissingSkills: match.Missing,
	}

	result.Embedding, result.SemanticScore = s.semanticScore(ctx, result.Description, userProfile, false)
	return result, nil
}

// semanticScore embeds the description and compares it against the
// profile embedding. On the AI path the description is always embedded;
// on the heuristic path only when a profile embedding exists, unless the
// policy says always.
func (s *AnalysisService) semanticScore(ctx context.Context, description string, userProfile *profile.Profile, aiPath bool) ([]float64, float64) {
	if s.embeddings == nil || description == "" {
		return nil, 0
	}
	hasProfileEmbedding := len(userProfile.Embedding) > 0
	if !aiPath && !hasProfileEmbedding && s.policy != config.SemanticAlways {
		return nil, 0
	}

	embedding, err := s.embeddings.Embed(ctx, description)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Analysis] embedding failed err=%v", err)
		}
		return nil, 0
	}

	score := 0.0
	if hasProfileEmbedding {
		score = ai.CosineSimilarity(embedding, userProfile.Embedding)
	}
	return embedding, score
}

func (s *AnalysisService) loadVocabulary(ctx context.Context) []analyzer.Skill {
	records, err := s.skills.GetAllSkills(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Analysis] vocabulary load failed err=%v", err)
		}
		return nil
	}
	vocab := make([]analyzer.Skill, 0, len(records))
	for _, r := range records {
		vocab = append(vocab, analyzer.Skill{Keyword: r.Keyword, Label: r.Name})
	}
	return vocab
}

// clipJSON cuts a model response down to the outermost JSON object,
// dropping any prose or markdown fencing around it.
func clipJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return raw
	}
	return raw[start : end+1]
}

func descriptionOrPlaceholder(description, rawURL string) string {
	if description != "" {
		return description
	}
	return "Analyzed from " + rawURL
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
