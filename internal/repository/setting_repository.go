package repository

import (
	"context"
	"errors"
	"time"

	"jobtrail/internal/database"
)

var ErrSettingNotFound = errors.New("setting not found")

// Settings hold operator-editable values: prompt templates and the
// default profile payload.
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type PostgresSettingRepository struct {
	db database.DB
}

func NewPostgresSettingRepository(db database.DB) *PostgresSettingRepository {
	return &PostgresSettingRepository{db: db}
}

func (r *PostgresSettingRepository) Get(ctx context.Context, key string) (string, error) {
	row := r.db.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if isNoRows(err) {
			return "", ErrSettingNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *PostgresSettingRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, time.Now().UTC(),
	)
	return err
}
