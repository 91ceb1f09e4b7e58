package repository

import (
	"context"
	"errors"
	"time"

	"jobtrail/internal/database"
	"jobtrail/internal/domain/profile"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

const profileColumns = `id, user_id, skills, COALESCE(experience, ''), preferences,
	COALESCE(seniority, ''), tech_stack, COALESCE(linkedin_link, ''), COALESCE(github_link, ''),
	COALESCE(cv_path, ''), COALESCE(arbeitszeugnis_path, ''),
	COALESCE(certificate_path, ''), COALESCE(cover_letter_path, ''),
	embedding, created_at, updated_at`

type ProfileRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
	Create(ctx context.Context, p *profile.Profile) error
	Update(ctx context.Context, p *profile.Profile) error
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE user_id = $1`,
		userID,
	)

	var p profile.Profile
	var skills, preferences, techStack, embedding []byte
	err := row.Scan(
		&p.ID, &p.UserID, &skills, &p.Experience, &preferences,
		&p.Seniority, &techStack, &p.LinkedinLink, &p.GithubLink,
		&p.CVPath, &p.ArbeitszeugnisPath, &p.CertificatePath, &p.CoverLetterPath,
		&embedding, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if err := scanJSONStrings(skills, &p.Skills); err != nil {
		return nil, err
	}
	if err := scanJSONStrings(preferences, &p.Preferences); err != nil {
		return nil, err
	}
	if err := scanJSONStrings(techStack, &p.TechStack); err != nil {
		return nil, err
	}
	if err := scanJSONFloats(embedding, &p.Embedding); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	skills, preferences, techStack, embedding, err := profileJSON(p)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO user_profiles
			(id, user_id, skills, experience, preferences, seniority, tech_stack,
			 linkedin_link, github_link, cv_path, arbeitszeugnis_path,
			 certificate_path, cover_letter_path, embedding, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.UserID, skills, p.Experience, preferences, p.Seniority, techStack,
		p.LinkedinLink, p.GithubLink, p.CVPath, p.ArbeitszeugnisPath,
		p.CertificatePath, p.CoverLetterPath, embedding, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *PostgresProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	skills, preferences, techStack, embedding, err := profileJSON(p)
	if err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()

	affected, err := r.db.Exec(ctx,
		`UPDATE user_profiles
		 SET skills = $1, experience = $2, preferences = $3, seniority = $4,
		     tech_stack = $5, linkedin_link = $6, github_link = $7, cv_path = $8,
		     arbeitszeugnis_path = $9, certificate_path = $10, cover_letter_path = $11,
		     embedding = $12, updated_at = $13
		 WHERE user_id = $14`,
		skills, p.Experience, preferences, p.Seniority, techStack,
		p.LinkedinLink, p.GithubLink, p.CVPath, p.ArbeitszeugnisPath,
		p.CertificatePath, p.CoverLetterPath, embedding, p.UpdatedAt, p.UserID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func profileJSON(p *profile.Profile) (skills, preferences, techStack, embedding []byte, err error) {
	if skills, err = jsonbStrings(p.Skills); err != nil {
		return nil, nil, nil, nil, err
	}
	if preferences, err = jsonbStrings(p.Preferences); err != nil {
		return nil, nil, nil, nil, err
	}
	if techStack, err = jsonbStrings(p.TechStack); err != nil {
		return nil, nil, nil, nil, err
	}
	if embedding, err = jsonbFloats(p.Embedding); err != nil {
		return nil, nil, nil, nil, err
	}
	return skills, preferences, techStack, embedding, nil
}
