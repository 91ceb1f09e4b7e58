package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobtrail/internal/database"
	"jobtrail/internal/domain/interview"

	"github.com/google/uuid"
)

var ErrInterviewNotFound = errors.New("interview not found")

const interviewColumns = `id, user_id, job_application_id, COALESCE(company_name, ''),
	COALESCE(position, ''), COALESCE(interview_link, ''), COALESCE(mail_content, ''),
	COALESCE(notes, ''), COALESCE(status, ''), scheduled_at, created_at, updated_at`

type InterviewRepository interface {
	Create(ctx context.Context, iv *interview.Interview) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*interview.Interview, error)
	FindFirstByFuzzyCompany(ctx context.Context, userID uuid.UUID, company string) (*interview.Interview, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]interview.Interview, error)
	Update(ctx context.Context, iv *interview.Interview) error
	AttachApplication(ctx context.Context, userID, id, applicationID uuid.UUID) error
	UpdateStatusByApplication(ctx context.Context, userID, applicationID uuid.UUID, status string) (int64, error)
	UpdateStatusByFuzzyCompany(ctx context.Context, userID uuid.UUID, company, status string) (int64, error)
	UpdateCompanyPositionByApplication(ctx context.Context, userID, applicationID uuid.UUID, company, position string) error
	Delete(ctx context.Context, userID, id uuid.UUID) (int64, error)
}

type PostgresInterviewRepository struct {
	db database.DB
}

func NewPostgresInterviewRepository(db database.DB) *PostgresInterviewRepository {
	return &PostgresInterviewRepository{db: db}
}

func (r *PostgresInterviewRepository) Create(ctx context.Context, iv *interview.Interview) error {
	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	now := time.Now().UTC()
	iv.CreatedAt = now
	iv.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO interviews
			(id, user_id, job_application_id, company_name, position, interview_link,
			 mail_content, notes, status, scheduled_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		iv.ID, iv.UserID, iv.JobApplicationID, iv.CompanyName, iv.Position,
		iv.InterviewLink, iv.MailContent, iv.Notes, iv.Status, iv.ScheduledAt,
		iv.CreatedAt, iv.UpdatedAt,
	)
	return err
}

func (r *PostgresInterviewRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*interview.Interview, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	iv, err := scanInterview(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	return iv, nil
}

func (r *PostgresInterviewRepository) FindFirstByFuzzyCompany(ctx context.Context, userID uuid.UUID, company string) (*interview.Interview, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+interviewColumns+`
		 FROM interviews
		 WHERE user_id = $1
		   AND (company_name ILIKE '%' || $2 || '%' OR $2 ILIKE '%' || company_name || '%')
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, company,
	)
	iv, err := scanInterview(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return iv, nil
}

func (r *PostgresInterviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]interview.Interview, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+interviewColumns+`
		 FROM interviews
		 WHERE user_id = $1
		 ORDER BY scheduled_at DESC NULLS LAST, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]interview.Interview, 0)
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *iv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresInterviewRepository) Update(ctx context.Context, iv *interview.Interview) error {
	iv.UpdatedAt = time.Now().UTC()
	affected, err := r.db.Exec(ctx,
		`UPDATE interviews
		 SET company_name = $1, position = $2, interview_link = $3, mail_content = $4,
		     notes = $5, status = $6, scheduled_at = $7, updated_at = $8
		 WHERE user_id = $9 AND id = $10`,
		iv.CompanyName, iv.Position, iv.InterviewLink, iv.MailContent,
		iv.Notes, iv.Status, iv.ScheduledAt, iv.UpdatedAt,
		iv.UserID, iv.ID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInterviewNotFound
	}
	return nil
}

func (r *PostgresInterviewRepository) AttachApplication(ctx context.Context, userID, id, applicationID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE interviews SET job_application_id = $1, updated_at = $2
		 WHERE user_id = $3 AND id = $4`,
		applicationID, time.Now().UTC(), userID, id,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInterviewNotFound
	}
	return nil
}

// UpdateStatusByApplication moves every interview linked to the
// application to the given status, returning how many rows changed.
func (r *PostgresInterviewRepository) UpdateStatusByApplication(ctx context.Context, userID, applicationID uuid.UUID, status string) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE interviews SET status = $1, updated_at = $2
		 WHERE user_id = $3 AND job_application_id = $4`,
		status, time.Now().UTC(), userID, applicationID,
	)
}

// UpdateStatusByFuzzyCompany is the fallback cascade for interviews that
// were never linked to the application.
func (r *PostgresInterviewRepository) UpdateStatusByFuzzyCompany(ctx context.Context, userID uuid.UUID, company, status string) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE interviews SET status = $1, updated_at = $2
		 WHERE user_id = $3
		   AND (company_name ILIKE '%' || $4 || '%' OR $4 ILIKE '%' || company_name || '%')`,
		status, time.Now().UTC(), userID, company,
	)
}

func (r *PostgresInterviewRepository) UpdateCompanyPositionByApplication(ctx context.Context, userID, applicationID uuid.UUID, company, position string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE interviews SET company_name = $1, position = $2, updated_at = $3
		 WHERE user_id = $4 AND job_application_id = $5`,
		company, position, time.Now().UTC(), userID, applicationID,
	)
	return err
}

func (r *PostgresInterviewRepository) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	return r.db.Exec(ctx,
		`DELETE FROM interviews WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
}

func scanInterview(s scanner) (*interview.Interview, error) {
	var iv interview.Interview
	var applicationID uuid.NullUUID
	var scheduledAt sql.NullTime

	err := s.Scan(
		&iv.ID, &iv.UserID, &applicationID, &iv.CompanyName, &iv.Position,
		&iv.InterviewLink, &iv.MailContent, &iv.Notes, &iv.Status,
		&scheduledAt, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if applicationID.Valid {
		id := applicationID.UUID
		iv.JobApplicationID = &id
	}
	if scheduledAt.Valid {
		t := scheduledAt.Time.UTC()
		iv.ScheduledAt = &t
	}
	return &iv, nil
}
