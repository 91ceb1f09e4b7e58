package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobtrail/internal/database"
	"jobtrail/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrApplicationNotFound = errors.New("job application not found")

const applicationColumns = `id, user_id, COALESCE(company_name, ''), COALESCE(position, ''),
	COALESCE(apply_link, ''), COALESCE(match_score, ''), COALESCE(status, ''),
	COALESCE(description, ''), highlights, missing_skills, embedding,
	COALESCE(semantic_score, 0),
	COALESCE(tailored_cv, ''), COALESCE(tailored_cover_letter, ''),
	COALESCE(tailored_cv_path, ''), COALESCE(tailored_cover_letter_path, ''),
	created_at, updated_at`

type JobApplicationRepository interface {
	Create(ctx context.Context, app *job.Application) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*job.Application, error)
	FindByUserAndLink(ctx context.Context, userID uuid.UUID, applyLink string) (*job.Application, error)
	FindFirstRejectedByFuzzyCompany(ctx context.Context, userID uuid.UUID, company string) (*job.Application, error)
	FindFirstByFuzzyCompany(ctx context.Context, userID uuid.UUID, company string) (*job.Application, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]job.Application, error)
	UpdateAnalysis(ctx context.Context, app *job.Application) error
	Update(ctx context.Context, app *job.Application) error
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error
	UpdateTailoredDocs(ctx context.Context, userID, id uuid.UUID, cv, coverLetter, cvPath, coverLetterPath string) error
	Delete(ctx context.Context, userID, id uuid.UUID) (int64, error)
	DeleteBulk(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type PostgresJobApplicationRepository struct {
	db database.DB
}

func NewPostgresJobApplicationRepository(db database.DB) *PostgresJobApplicationRepository {
	return &PostgresJobApplicationRepository{db: db}
}

func (r *PostgresJobApplicationRepository) Create(ctx context.Context, app *job.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	highlights, err := jsonbStrings(app.Highlights)
	if err != nil {
		return err
	}
	missing, err := jsonbStrings(app.MissingSkills)
	if err != nil {
		return err
	}
	embedding, err := jsonbFloats(app.Embedding)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO job_applications
			(id, user_id, company_name, position, apply_link, match_score, status,
			 description, highlights, missing_skills, embedding, semantic_score,
			 created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		app.ID, app.UserID, app.CompanyName, app.Position, app.ApplyLink,
		app.MatchScore, app.Status, app.Description, highlights, missing,
		embedding, app.SemanticScore, app.CreatedAt, app.UpdatedAt,
	)
	return err
}

func (r *PostgresJobApplicationRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*job.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM job_applications WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	app, err := scanApplication(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *PostgresJobApplicationRepository) FindByUserAndLink(ctx context.Context, userID uuid.UUID, applyLink string) (*job.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM job_applications WHERE user_id = $1 AND apply_link = $2`,
		userID, applyLink,
	)
	return scanOptionalApplication(row)
}

func (r *PostgresJobApplicationRepository) FindFirstRejectedByFuzzyCompany(ctx context.Context, userID uuid.UUID, company string) (*job.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+`
		 FROM job_applications
		 WHERE user_id = $1
		   AND status = 'Rejected'
		   AND (company_name ILIKE '%' || $2 || '%' OR $2 ILIKE '%' || company_name || '%')
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, company,
	)
	return scanOptionalApplication(row)
}

func (r *PostgresJobApplicationRepository) FindFirstByFuzzyCompany(ctx context.Context, userID uuid.UUID, company string) (*job.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+`
		 FROM job_applications
		 WHERE user_id = $1
		   AND (company_name ILIKE '%' || $2 || '%' OR $2 ILIKE '%' || company_name || '%')
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, company,
	)
	return scanOptionalApplication(row)
}

func (r *PostgresJobApplicationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]job.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+`
		 FROM job_applications
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAnalysis rewrites only the analysis-derived fields; identity and
// status are untouched so re-analysis of an existing link is idempotent.
func (r *PostgresJobApplicationRepository) UpdateAnalysis(ctx context.Context, app *job.Application) error {
	highlights, err := jsonbStrings(app.Highlights)
	if err != nil {
		return err
	}
	missing, err := jsonbStrings(app.MissingSkills)
	if err != nil {
		return err
	}
	embedding, err := jsonbFloats(app.Embedding)
	if err != nil {
		return err
	}
	app.UpdatedAt = time.Now().UTC()

	affected, err := r.db.Exec(ctx,
		`UPDATE job_applications
		 SET company_name = $1, position = $2, match_score = $3, description = $4,
		     highlights = $5, missing_skills = $6, embedding = $7,
		     semantic_score = $8, updated_at = $9
		 WHERE user_id = $10 AND id = $11`,
		app.CompanyName, app.Position, app.MatchScore, app.Description,
		highlights, missing, embedding, app.SemanticScore, app.UpdatedAt,
		app.UserID, app.ID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresJobApplicationRepository) Update(ctx context.Context, app *job.Application) error {
	app.UpdatedAt = time.Now().UTC()
	affected, err := r.db.Exec(ctx,
		`UPDATE job_applications
		 SET company_name = $1, position = $2, apply_link = $3, status = $4, updated_at = $5
		 WHERE user_id = $6 AND id = $7`,
		app.CompanyName, app.Position, app.ApplyLink, app.Status, app.UpdatedAt,
		app.UserID, app.ID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresJobApplicationRepository) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE job_applications SET status = $1, updated_at = $2
		 WHERE user_id = $3 AND id = $4`,
		status, time.Now().UTC(), userID, id,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresJobApplicationRepository) UpdateTailoredDocs(ctx context.Context, userID, id uuid.UUID, cv, coverLetter, cvPath, coverLetterPath string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE job_applications
		 SET tailored_cv = $1, tailored_cover_letter = $2,
		     tailored_cv_path = $3, tailored_cover_letter_path = $4, updated_at = $5
		 WHERE user_id = $6 AND id = $7`,
		cv, coverLetter, cvPath, coverLetterPath, time.Now().UTC(), userID, id,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresJobApplicationRepository) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	return r.db.Exec(ctx,
		`DELETE FROM job_applications WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
}

func (r *PostgresJobApplicationRepository) DeleteBulk(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.db.Exec(ctx,
		`DELETE FROM job_applications WHERE user_id = $1 AND id = ANY($2)`,
		userID, ids,
	)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(s scanner) (*job.Application, error) {
	var app job.Application
	var highlights, missing, embedding []byte

	err := s.Scan(
		&app.ID, &app.UserID, &app.CompanyName, &app.Position, &app.ApplyLink,
		&app.MatchScore, &app.Status, &app.Description,
		&highlights, &missing, &embedding, &app.SemanticScore,
		&app.TailoredCV, &app.TailoredCoverLetter,
		&app.TailoredCVPath, &app.TailoredCoverLetterPath,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := scanJSONStrings(highlights, &app.Highlights); err != nil {
		return nil, err
	}
	if err := scanJSONStrings(missing, &app.MissingSkills); err != nil {
		return nil, err
	}
	if err := scanJSONFloats(embedding, &app.Embedding); err != nil {
		return nil, err
	}
	return &app, nil
}

func scanOptionalApplication(row database.Row) (*job.Application, error) {
	app, err := scanApplication(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return app, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
