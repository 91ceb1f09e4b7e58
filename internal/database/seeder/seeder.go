package seeder

import (
	"context"

	"jobtrail/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
