package repository

import (
	"context"

	"jobtrail/internal/database"

	"github.com/google/uuid"
)

// Skill is one vocabulary entry used by the heuristic matcher: keyword is
// the lowercase detection token, name the canonical display label.
type Skill struct {
	ID      uuid.UUID
	Keyword string
	Name    string
}

type SkillRepository interface {
	GetAllSkills(ctx context.Context) ([]Skill, error)
	CreateSkill(ctx context.Context, keyword, name string) (Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) GetAllSkills(ctx context.Context) ([]Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, keyword, name FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Keyword, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) CreateSkill(ctx context.Context, keyword, name string) (Skill, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx,
		`INSERT INTO skills (id, keyword, name) VALUES ($1, $2, $3)
		 ON CONFLICT (keyword) DO NOTHING`,
		id, keyword, name,
	)
	if err != nil {
		return Skill{}, err
	}
	return Skill{ID: id, Keyword: keyword, Name: name}, nil
}
