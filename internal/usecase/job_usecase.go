package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"jobtrail/internal/domain/crossref"
	"jobtrail/internal/domain/interview"
	"jobtrail/internal/domain/job"
	"jobtrail/internal/domain/profile"
	"jobtrail/internal/repository"

	"github.com/google/uuid"
)

const jobsListCacheTTL = 5 * time.Minute

type employerLocker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

type jobCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidateUserJobs(ctx context.Context, userID string) error
}

type docStore interface {
	Save(relPath string, content []byte) (string, error)
}

// UpdateJobInput carries the mutable application fields; nil means leave
// unchanged.
type UpdateJobInput struct {
	CompanyName *string
	Position    *string
	ApplyLink   *string
	Status      *string
}

type JobUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, applyLink string) (*job.Application, bool, error)
	Reanalyze(ctx context.Context, userID, id uuid.UUID) (*job.Application, error)
	List(ctx context.Context, userID uuid.UUID) ([]job.Application, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*job.Application, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdateJobInput) (*job.Application, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	GenerateDocs(ctx context.Context, userID, id uuid.UUID, userName string) (*job.Application, error)
}

type Job struct {
	apps       repository.JobApplicationRepository
	interviews repository.InterviewRepository
	profiles   repository.ProfileRepository
	analysis   AnalysisUsecase
	locks      employerLocker
	cache      jobCache
	store      docStore
	logger     *log.Logger
}

func NewJobUsecase(
	apps repository.JobApplicationRepository,
	interviews repository.InterviewRepository,
	profiles repository.ProfileRepository,
	analysis AnalysisUsecase,
	locks employerLocker,
	cache jobCache,
	store docStore,
	logger *log.Logger,
) *Job {
	return &Job{
		apps:       apps,
		interviews: interviews,
		profiles:   profiles,
		analysis:   analysis,
		locks:      locks,
		cache:      cache,
		store:      store,
		logger:     logger,
	}
}

// Create analyzes the link and stores a new application. Submitting a
// link that already exists re-analyzes it in place instead of erroring;
// the returned bool reports whether a new record was created.
func (u *Job) Create(ctx context.Context, userID uuid.UUID, applyLink string) (*job.Application, bool, error) {
	applyLink = strings.TrimSpace(applyLink)
	if !validApplyLink(applyLink) {
		return nil, false, ErrInvalidLink
	}

	existing, err := u.apps.FindByUserAndLink(ctx, userID, applyLink)
	if err != nil {
		return nil, false, ErrInternal
	}

	analysis, err := u.analysis.Analyze(ctx, userID, applyLink)
	if err != nil {
		return nil, false, ErrInternal
	}

	if existing != nil {
		applyAnalysis(existing, analysis)
		if err := u.apps.UpdateAnalysis(ctx, existing); err != nil {
			return nil, false, ErrInternal
		}
		u.invalidate(ctx, userID)
		return existing, false, nil
	}

	release, err := u.locks.Acquire(ctx, employerLockKey(userID, analysis.CompanyName))
	if err != nil {
		return nil, false, ErrInternal
	}
	defer release()

	existingInterview, err := u.interviews.FindFirstByFuzzyCompany(ctx, userID, analysis.CompanyName)
	if err != nil {
		return nil, false, ErrInternal
	}
	rejected, err := u.apps.FindFirstRejectedByFuzzyCompany(ctx, userID, analysis.CompanyName)
	if err != nil {
		return nil, false, ErrInternal
	}
	if conflict := crossref.ApplicationCreateConflict(existingInterview, rejected); conflict != nil {
		return nil, false, &ConflictError{Conflict: *conflict}
	}

	app := &job.Application{
		UserID:    userID,
		ApplyLink: applyLink,
		Status:    job.StatusPending,
	}
	applyAnalysis(app, analysis)

	if err := u.apps.Create(ctx, app); err != nil {
		return nil, false, ErrInternal
	}
	u.invalidate(ctx, userID)
	return app, true, nil
}

// Reanalyze re-runs the pipeline over the stored apply link, rewriting
// the analysis fields without touching status or identity.
func (u *Job) Reanalyze(ctx context.Context, userID, id uuid.UUID) (*job.Application, error) {
	app, err := u.findApp(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	analysis, err := u.analysis.Analyze(ctx, userID, app.ApplyLink)
	if err != nil {
		return nil, ErrInternal
	}

	applyAnalysis(app, analysis)
	if err := u.apps.UpdateAnalysis(ctx, app); err != nil {
		return nil, ErrInternal
	}
	u.invalidate(ctx, userID)
	return app, nil
}

func (u *Job) List(ctx context.Context, userID uuid.UUID) ([]job.Application, error) {
	cacheKey := jobsListCacheKey(userID)
	if u.cache != nil {
		var cached []job.Application
		if ok, _ := u.cache.GetJSON(ctx, cacheKey, &cached); ok {
			return cached, nil
		}
	}

	apps, err := u.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cacheKey, apps, jobsListCacheTTL)
	}
	return apps, nil
}

func (u *Job) Get(ctx context.Context, userID, id uuid.UUID) (*job.Application, error) {
	return u.findApp(ctx, userID, id)
}

// Update edits the application and keeps linked interviews consistent:
// company and position changes propagate, and a Rejected status cascades
// to interviews via the link, falling back to employer fuzzy match when
// no interview was ever linked.
func (u *Job) Update(ctx context.Context, userID, id uuid.UUID, input UpdateJobInput) (*job.Application, error) {
	app, err := u.findApp(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !job.ValidStatus(*input.Status) {
		return nil, ErrInvalidInput
	}
	syncBasics := false
	if input.CompanyName != nil {
		app.CompanyName = strings.TrimSpace(*input.CompanyName)
		syncBasics = true
	}
	if input.Position != nil {
		app.Position = strings.TrimSpace(*input.Position)
		syncBasics = true
	}
	if input.ApplyLink != nil {
		link := strings.TrimSpace(*input.ApplyLink)
		if !validApplyLink(link) {
			return nil, ErrInvalidLink
		}
		app.ApplyLink = link
	}
	if input.Status != nil {
		app.Status = *input.Status
	}

	release, err := u.locks.Acquire(ctx, employerLockKey(userID, app.CompanyName))
	if err != nil {
		return nil, ErrInternal
	}
	defer release()

	if err := u.apps.Update(ctx, app); err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}

	if syncBasics {
		if err := u.interviews.UpdateCompanyPositionByApplication(ctx, userID, app.ID, app.CompanyName, app.Position); err != nil {
			return nil, ErrInternal
		}
	}

	if app.IsRejected() {
		updated, err := u.interviews.UpdateStatusByApplication(ctx, userID, app.ID, interview.StatusRejected)
		if err != nil {
			return nil, ErrInternal
		}
		if updated == 0 {
			if _, err := u.interviews.UpdateStatusByFuzzyCompany(ctx, userID, app.CompanyName, interview.StatusRejected); err != nil {
				return nil, ErrInternal
			}
		}
	}

	u.invalidate(ctx, userID)
	return app, nil
}

func (u *Job) Delete(ctx context.Context, userID, id uuid.UUID) error {
	affected, err := u.apps.Delete(ctx, userID, id)
	if err != nil {
		return ErrInternal
	}
	if affected == 0 {
		return ErrNotFound
	}
	u.invalidate(ctx, userID)
	return nil
}

func (u *Job) BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return ErrInvalidInput
	}
	if _, err := u.apps.DeleteBulk(ctx, userID, ids); err != nil {
		return ErrInternal
	}
	u.invalidate(ctx, userID)
	return nil
}

// GenerateDocs renders the template-based cover letter and ATS summary
// for the application and stores both as text documents.
func (u *Job) GenerateDocs(ctx context.Context, userID, id uuid.UUID, userName string) (*job.Application, error) {
	app, err := u.findApp(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	userProfile, err := u.profiles.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrInternal
		}
		userProfile = &profile.Profile{UserID: userID}
	}

	coverLetter := renderCoverLetter(app, userProfile, userName)
	cv := renderCV(app, userProfile)

	cvPath, err := u.store.Save(fmt.Sprintf("tailored/cv_%s.txt", app.ID), []byte(cv))
	if err != nil {
		return nil, ErrInternal
	}
	clPath, err := u.store.Save(fmt.Sprintf("tailored/cl_%s.txt", app.ID), []byte(coverLetter))
	if err != nil {
		return nil, ErrInternal
	}

	if err := u.apps.UpdateTailoredDocs(ctx, userID, app.ID, cv, coverLetter, cvPath, clPath); err != nil {
		return nil, ErrInternal
	}

	app.TailoredCV = cv
	app.TailoredCoverLetter = coverLetter
	app.TailoredCVPath = cvPath
	app.TailoredCoverLetterPath = clPath
	u.invalidate(ctx, userID)
	return app, nil
}

func (u *Job) findApp(ctx context.Context, userID, id uuid.UUID) (*job.Application, error) {
	app, err := u.apps.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}
	return app, nil
}

func (u *Job) invalidate(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil {
		return
	}
	if err := u.cache.InvalidateUserJobs(ctx, userID.String()); err != nil && u.logger != nil {
		u.logger.Printf("[Jobs] cache invalidation failed user=%s err=%v", userID, err)
	}
}

func applyAnalysis(app *job.Application, a *Analysis) {
	app.CompanyName = a.CompanyName
	app.Position = a.Position
	app.MatchScore = a.MatchScore
	app.Description = a.Description
	app.Highlights = a.Highlights
	app.MissingSkills = a.MissingSkills
	app.Embedding = a.Embedding
	app.SemanticScore = a.SemanticScore
}

func validApplyLink(link string) bool {
	if !strings.HasPrefix(link, "http") {
		return false
	}
	parsed, err := url.Parse(link)
	return err == nil && parsed.Host != ""
}

func employerLockKey(userID uuid.UUID, company string) string {
	return userID.String() + ":" + crossref.EmployerKey(company)
}

func jobsListCacheKey(userID uuid.UUID) string {
	return "jobs:list:" + userID.String() + ":all"
}

func renderCoverLetter(app *job.Application, p *profile.Profile, userName string) string {
	skills := p.Skills
	background := strings.Join(firstN(skills, 3), ", ")
	if background == "" {
		background = "software engineering"
	}

	experienceClause := "professional software development"
	if len(skills) > 3 {
		experienceClause = skills[3] + " and deeper technical implementations"
	}

	return fmt.Sprintf("Dear Hiring Manager at %s,\n\n"+
		"I am writing to express my strong interest in the %s position. "+
		"With my background in %s, "+
		"I am confident that my skills align well with the requirements of your team.\n\n"+
		"My experience in %s "+
		"has prepared me to contribute effectively to your projects at %s.\n\n"+
		"Thank you for your time and consideration. I look forward to the possibility of discussing how my background can support your goals.\n\n"+
		"Sincerely,\n%s",
		app.CompanyName, app.Position, background, experienceClause, app.CompanyName, userName)
}

func renderCV(app *job.Application, p *profile.Profile) string {
	experience := p.Experience
	if strings.TrimSpace(experience) == "" {
		experience = "Not specified"
	}

	return fmt.Sprintf("PROFESSIONAL SUMMARY: \n"+
		"Targeted for: %s at %s\n\n"+
		"Technical Expertise: %s\n"+
		"Key Industry Match: %s\n\n"+
		"Professional Experience Summary:\n%s...",
		app.Position, app.CompanyName,
		strings.Join(p.Skills, ", "),
		strings.Join(app.Highlights, ", "),
		truncate(experience, 500))
}

func firstN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
