package seeder

import (
	"context"
	"fmt"

	"jobtrail/internal/database"
)

// SkillVocabularySeeder loads the keyword vocabulary the heuristic
// analysis path scans job descriptions with. Keywords are matched
// lowercased on word boundaries; names are the labels surfaced to users.
type SkillVocabularySeeder struct{}

func (SkillVocabularySeeder) Name() string { return "skill_vocabulary" }

func (SkillVocabularySeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "keyword", "name"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Keyword string
		Name    string
	}{
		{Keyword: "react", Name: "React"},
		{Keyword: "php", Name: "PHP"},
		{Keyword: "laravel", Name: "Laravel"},
		{Keyword: "mysql", Name: "MySQL"},
		{Keyword: "javascript", Name: "JavaScript"},
		{Keyword: "typescript", Name: "TypeScript"},
		{Keyword: "python", Name: "Python"},
		{Keyword: "aws", Name: "AWS"},
		{Keyword: "docker", Name: "Docker"},
		{Keyword: "tailwind", Name: "Tailwind CSS"},
		{Keyword: "node", Name: "Node.js"},
		{Keyword: "vue", Name: "Vue.js"},
		{Keyword: "postgres", Name: "PostgreSQL"},
		{Keyword: "golang", Name: "Go"},
		{Keyword: "rust", Name: "Rust"},
		{Keyword: "kubernetes", Name: "Kubernetes"},
		{Keyword: "redis", Name: "Redis"},
		{Keyword: "graphql", Name: "GraphQL"},
		{Keyword: "nextjs", Name: "Next.js"},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, keyword, name) VALUES (gen_random_uuid(), $1, $2)
			 ON CONFLICT (keyword) DO UPDATE SET name = EXCLUDED.name`,
			it.Keyword,
			it.Name,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
