package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"jobtrail/internal/domain/crossref"
	"jobtrail/internal/domain/interview"
	"jobtrail/internal/domain/job"
	"jobtrail/internal/domain/profile"
	"jobtrail/internal/repository"

	"github.com/google/uuid"
)

type fakeAppRepo struct {
	apps map[uuid.UUID]*job.Application
	err  error
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{apps: make(map[uuid.UUID]*job.Application)}
}

func (f *fakeAppRepo) Create(ctx context.Context, app *job.Application) error {
	if f.err != nil {
		return f.err
	}
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	app.CreatedAt = time.Now().UTC()
	app.UpdatedAt = app.CreatedAt
	stored := *app
	f.apps[app.ID] = &stored
	return nil
}

func (f *fakeAppRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*job.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	app, ok := f.apps[id]
	if !ok || app.UserID != userID {
		return nil, repository.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (f *fakeAppRepo) FindByUserAndLink(ctx context.Context, userID uuid.UUID, applyLink string) (*job.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, app := range f.apps {
		if app.UserID == userID && app.ApplyLink == applyLink {
			copied := *app
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAppRepo) FindFirstRejectedByFuzzyCompany(ctx context.Context, userID uuid.UUID, company string) (*job.Application, error) {
	for _, app := range f.sorted() {
		if app.UserID == userID && app.IsRejected() && crossref.EmployerMatches(app.CompanyName, company) {
			copied := *app
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAppRepo) FindFirstByFuzzyCompany(ctx context.Context, userID uuid.UUID, company string) (*job.Application, error) {
	for _, app := range f.sorted() {
		if app.UserID == userID && crossref.EmployerMatches(app.CompanyName, company) {
			copied := *app
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAppRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]job.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]job.Application, 0)
	for _, app := range f.sorted() {
		if app.UserID == userID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeAppRepo) UpdateAnalysis(ctx context.Context, app *job.Application) error {
	return f.replace(app)
}

func (f *fakeAppRepo) Update(ctx context.Context, app *job.Application) error {
	return f.replace(app)
}

func (f *fakeAppRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error {
	app, ok := f.apps[id]
	if !ok || app.UserID != userID {
		return repository.ErrApplicationNotFound
	}
	app.Status = status
	return nil
}

func (f *fakeAppRepo) UpdateTailoredDocs(ctx context.Context, userID, id uuid.UUID, cv, coverLetter, cvPath, coverLetterPath string) error {
	app, ok := f.apps[id]
	if !ok || app.UserID != userID {
		return repository.ErrApplicationNotFound
	}
	app.TailoredCV = cv
	app.TailoredCoverLetter = coverLetter
	app.TailoredCVPath = cvPath
	app.TailoredCoverLetterPath = coverLetterPath
	return nil
}

func (f *fakeAppRepo) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	app, ok := f.apps[id]
	if !ok || app.UserID != userID {
		return 0, nil
	}
	delete(f.apps, id)
	return 1, nil
}

func (f *fakeAppRepo) DeleteBulk(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		if app, ok := f.apps[id]; ok && app.UserID == userID {
			delete(f.apps, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeAppRepo) replace(app *job.Application) error {
	stored, ok := f.apps[app.ID]
	if !ok || stored.UserID != app.UserID {
		return repository.ErrApplicationNotFound
	}
	copied := *app
	f.apps[app.ID] = &copied
	return nil
}

func (f *fakeAppRepo) sorted() []*job.Application {
	out := make([]*job.Application, 0, len(f.apps))
	for _, app := range f.apps {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type fakeInterviewRepo struct {
	interviews map[uuid.UUID]*interview.Interview
	err        error
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{interviews: make(map[uuid.UUID]*interview.Interview)}
}

func (f *fakeInterviewRepo) Create(ctx context.Context, iv *interview.Interview) error {
	if f.err != nil {
		return f.err
	}
	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	iv.CreatedAt = time.Now().UTC()
	iv.UpdatedAt = iv.CreatedAt
	stored := *iv
	f.interviews[iv.ID] = &stored
	return nil
}

func (f *fakeInterviewRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*interview.Interview, error) {
	iv, ok := f.interviews[id]
	if !ok || iv.UserID != userID {
		return nil, repository.ErrInterviewNotFound
	}
	copied := *iv
	return &copied, nil
}

func (f *fakeInterviewRepo) FindFirstByFuzzyCompany(ctx context.Context, userID uuid.UUID, company string) (*interview.Interview, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, iv := range f.interviews {
		if iv.UserID == userID && crossref.EmployerMatches(iv.CompanyName, company) {
			copied := *iv
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeInterviewRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]interview.Interview, error) {
	out := make([]interview.Interview, 0)
	for _, iv := range f.interviews {
		if iv.UserID == userID {
			out = append(out, *iv)
		}
	}
	return out, nil
}

func (f *fakeInterviewRepo) Update(ctx context.Context, iv *interview.Interview) error {
	stored, ok := f.interviews[iv.ID]
	if !ok || stored.UserID != iv.UserID {
		return repository.ErrInterviewNotFound
	}
	copied := *iv
	f.interviews[iv.ID] = &copied
	return nil
}

func (f *fakeInterviewRepo) AttachApplication(ctx context.Context, userID, id, applicationID uuid.UUID) error {
	iv, ok := f.interviews[id]
	if !ok || iv.UserID != userID {
		return repository.ErrInterviewNotFound
	}
	iv.JobApplicationID = &applicationID
	return nil
}

func (f *fakeInterviewRepo) UpdateStatusByApplication(ctx context.Context, userID, applicationID uuid.UUID, status string) (int64, error) {
	var n int64
	for _, iv := range f.interviews {
		if iv.UserID == userID && iv.JobApplicationID != nil && *iv.JobApplicationID == applicationID {
			iv.Status = status
			n++
		}
	}
	return n, nil
}

func (f *fakeInterviewRepo) UpdateStatusByFuzzyCompany(ctx context.Context, userID uuid.UUID, company, status string) (int64, error) {
	var n int64
	for _, iv := range f.interviews {
		if iv.UserID == userID && crossref.EmployerMatches(iv.CompanyName, company) {
			iv.Status = status
			n++
		}
	}
	return n, nil
}

func (f *fakeInterviewRepo) UpdateCompanyPositionByApplication(ctx context.Context, userID, applicationID uuid.UUID, company, position string) error {
	for _, iv := range f.interviews {
		if iv.UserID == userID && iv.JobApplicationID != nil && *iv.JobApplicationID == applicationID {
			iv.CompanyName = company
			iv.Position = position
		}
	}
	return nil
}

func (f *fakeInterviewRepo) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	iv, ok := f.interviews[id]
	if !ok || iv.UserID != userID {
		return 0, nil
	}
	delete(f.interviews, id)
	return 1, nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*profile.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*profile.Profile)}
}

func (f *fakeProfileRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copied := *p
	f.profiles[p.UserID] = &copied
	return nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	if _, ok := f.profiles[p.UserID]; !ok {
		return repository.ErrProfileNotFound
	}
	copied := *p
	f.profiles[p.UserID] = &copied
	return nil
}

type fakeSkillRepo struct {
	skills []repository.Skill
	err    error
}

func (f *fakeSkillRepo) GetAllSkills(ctx context.Context) ([]repository.Skill, error) {
	return f.skills, f.err
}

func (f *fakeSkillRepo) CreateSkill(ctx context.Context, keyword, name string) (repository.Skill, error) {
	s := repository.Skill{ID: uuid.New(), Keyword: keyword, Name: name}
	f.skills = append(f.skills, s)
	return s, nil
}

type fakeSettingRepo struct {
	values map[string]string
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{values: make(map[string]string)}
}

func (f *fakeSettingRepo) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", repository.ErrSettingNotFound
	}
	return v, nil
}

func (f *fakeSettingRepo) Set(ctx context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

type fakeLocker struct {
	keys     []string
	held     int
	released int
}

func (f *fakeLocker) Acquire(ctx context.Context, key string) (func(), error) {
	f.keys = append(f.keys, key)
	f.held++
	return func() { f.released++ }, nil
}

type fakeJobCache struct {
	data        map[string][]byte
	invalidated []string
}

func newFakeJobCache() *fakeJobCache {
	return &fakeJobCache{data: make(map[string][]byte)}
}

func (f *fakeJobCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeJobCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

func (f *fakeJobCache) InvalidateUserJobs(ctx context.Context, userID string) error {
	f.invalidated = append(f.invalidated, userID)
	return nil
}

type fakeDocStore struct {
	saved map[string][]byte
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{saved: make(map[string][]byte)}
}

func (f *fakeDocStore) Save(relPath string, content []byte) (string, error) {
	f.saved[relPath] = content
	return relPath, nil
}

type fakeAnalyzer struct {
	result *Analysis
	err    error
	calls  int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, userID uuid.UUID, rawURL string) (*Analysis, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.result
	return &copied, nil
}

type fakeCompletion struct {
	out   string
	err   error
	calls int
}

func (f *fakeCompletion) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	return f.out, f.err
}

type fakeEmbedding struct {
	vector []float64
	err    error
	calls  int
}

func (f *fakeEmbedding) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeFetcher struct {
	body string
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) string {
	return f.body
}

var errBoom = errors.New("boom")
