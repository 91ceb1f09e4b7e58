package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"jobtrail/internal/domain/crossref"
	"jobtrail/internal/domain/interview"
	"jobtrail/internal/domain/job"
	"jobtrail/internal/repository"

	"github.com/google/uuid"
)

// CreateInterviewInput is the payload for a new interview. The
// application reference is optional; a match against an existing unlinked
// interview attaches the link instead of creating a duplicate.
type CreateInterviewInput struct {
	JobApplicationID *uuid.UUID
	CompanyName      string
	Position         string
	InterviewLink    string
	MailContent      string
	Notes            string
	Status           string
	ScheduledAt      *time.Time
}

// UpdateInterviewInput carries the mutable interview fields; nil means
// leave unchanged.
type UpdateInterviewInput struct {
	CompanyName   *string
	Position      *string
	InterviewLink *string
	MailContent   *string
	Notes         *string
	Status        *string
	ScheduledAt   *time.Time
}

type InterviewUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInterviewInput) (*interview.Interview, bool, error)
	List(ctx context.Context, userID uuid.UUID) ([]interview.Interview, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*interview.Interview, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdateInterviewInput) (*interview.Interview, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CheckCompany(ctx context.Context, userID uuid.UUID, companyName string) (crossref.CompanyCheck, error)
}

type InterviewService struct {
	interviews repository.InterviewRepository
	apps       repository.JobApplicationRepository
	locks      employerLocker
	logger     *log.Logger
}

func NewInterviewUsecase(
	interviews repository.InterviewRepository,
	apps repository.JobApplicationRepository,
	locks employerLocker,
	logger *log.Logger,
) *InterviewService {
	return &InterviewService{interviews: interviews, apps: apps, locks: locks, logger: logger}
}

// Create stores a new interview unless one already exists for a
// fuzzy-matching employer. An existing unlinked interview is linked to
// the referenced application and returned instead; the bool reports
// whether a new record was created. A linked create moves the referenced
// application to Interview status.
func (u *InterviewService) Create(ctx context.Context, userID uuid.UUID, input CreateInterviewInput) (*interview.Interview, bool, error) {
	input.CompanyName = strings.TrimSpace(input.CompanyName)
	if input.CompanyName == "" {
		return nil, false, ErrInvalidInput
	}
	if input.Status == "" {
		input.Status = interview.StatusScheduled
	}
	if !interview.ValidStatus(input.Status) {
		return nil, false, ErrInvalidInput
	}

	release, err := u.locks.Acquire(ctx, employerLockKey(userID, input.CompanyName))
	if err != nil {
		return nil, false, ErrInternal
	}
	defer release()

	existing, err := u.interviews.FindFirstByFuzzyCompany(ctx, userID, input.CompanyName)
	if err != nil {
		return nil, false, ErrInternal
	}

	outcome := crossref.InterviewCreateDecision(existing, input.JobApplicationID != nil)
	if outcome.AttachLink {
		if err := u.interviews.AttachApplication(ctx, userID, existing.ID, *input.JobApplicationID); err != nil {
			return nil, false, ErrInternal
		}
		existing.JobApplicationID = input.JobApplicationID
		return existing, false, nil
	}
	if outcome.Conflict != nil {
		return nil, false, &ConflictError{Conflict: *outcome.Conflict, Interview: existing}
	}

	iv := &interview.Interview{
		UserID:           userID,
		JobApplicationID: input.JobApplicationID,
		CompanyName:      input.CompanyName,
		Position:         strings.TrimSpace(input.Position),
		InterviewLink:    strings.TrimSpace(input.InterviewLink),
		MailContent:      input.MailContent,
		Notes:            input.Notes,
		Status:           input.Status,
		ScheduledAt:      input.ScheduledAt,
	}
	if err := u.interviews.Create(ctx, iv); err != nil {
		return nil, false, ErrInternal
	}

	if input.JobApplicationID != nil {
		if err := u.apps.UpdateStatus(ctx, userID, *input.JobApplicationID, job.StatusInterview); err != nil {
			if !errors.Is(err, repository.ErrApplicationNotFound) {
				return nil, false, ErrInternal
			}
			if u.logger != nil {
				u.logger.Printf("[Interviews] linked application missing id=%s", *input.JobApplicationID)
			}
		}
	}

	return iv, true, nil
}

func (u *InterviewService) List(ctx context.Context, userID uuid.UUID) ([]interview.Interview, error) {
	out, err := u.interviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *InterviewService) Get(ctx context.Context, userID, id uuid.UUID) (*interview.Interview, error) {
	return u.findInterview(ctx, userID, id)
}

func (u *InterviewService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateInterviewInput) (*interview.Interview, error) {
	iv, err := u.findInterview(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !interview.ValidStatus(*input.Status) {
		return nil, ErrInvalidInput
	}
	if input.CompanyName != nil {
		iv.CompanyName = strings.TrimSpace(*input.CompanyName)
	}
	if input.Position != nil {
		iv.Position = strings.TrimSpace(*input.Position)
	}
	if input.InterviewLink != nil {
		iv.InterviewLink = strings.TrimSpace(*input.InterviewLink)
	}
	if input.MailContent != nil {
		iv.MailContent = *input.MailContent
	}
	if input.Notes != nil {
		iv.Notes = *input.Notes
	}
	if input.Status != nil {
		iv.Status = *input.Status
	}
	if input.ScheduledAt != nil {
		iv.ScheduledAt = input.ScheduledAt
	}

	if err := u.interviews.Update(ctx, iv); err != nil {
		if errors.Is(err, repository.ErrInterviewNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}
	return iv, nil
}

func (u *InterviewService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	affected, err := u.interviews.Delete(ctx, userID, id)
	if err != nil {
		return ErrInternal
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CheckCompany is the non-mutating duplicate probe used before applying
// or accepting an interview invitation.
func (u *InterviewService) CheckCompany(ctx context.Context, userID uuid.UUID, companyName string) (crossref.CompanyCheck, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return crossref.CompanyCheck{Status: crossref.CheckStatusClean}, nil
	}

	existingInterview, err := u.interviews.FindFirstByFuzzyCompany(ctx, userID, companyName)
	if err != nil {
		return crossref.CompanyCheck{}, ErrInternal
	}
	existingApp, err := u.apps.FindFirstByFuzzyCompany(ctx, userID, companyName)
	if err != nil {
		return crossref.CompanyCheck{}, ErrInternal
	}

	return crossref.CheckCompany(existingInterview, existingApp), nil
}

func (u *InterviewService) findInterview(ctx context.Context, userID, id uuid.UUID) (*interview.Interview, error) {
	iv, err := u.interviews.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrInterviewNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}
	return iv, nil
}
