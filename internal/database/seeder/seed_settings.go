package seeder

import (
	"context"
	"fmt"
	"time"

	"jobtrail/internal/database"
)

// SettingsSeeder installs the prompt templates and the default profile
// payload. Values are overwritten on every run so template fixes ship
// with deploys.
type SettingsSeeder struct{}

func (SettingsSeeder) Name() string { return "settings" }

func (SettingsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "settings", "key", "value", "group", "updated_at"); err != nil {
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
		Key   string
		Group string
		Value string
	}{
		{
			Key:   "cl_prompt_template",
			Group: "ai_prompts",
			Value: "Write a professional cover letter for the position of {position} at {company_name}. \nUser Skills: {skills}. \nExperience: {experience}. \nJob Description: {description}. \nKeep it concise, professional, and tailored to the job.",
		},
		{
			Key:   "cv_prompt_template",
			Group: "ai_prompts",
			Value: "Create a tailored, ATS-friendly professional summary and key achievements section for a CV. \nTarget Role: {position} at {company_name}. \nUser Background: {experience}. \nUser Skills: {skills}. \nFocus on matching the job description: {description}.",
		},
		{
			Key:   "analysis_prompt_template",
			Group: "ai_prompts",
			Value: "Analyze this job description for a software engineering role. \nJob Position: {position} at {company_name}.\nDescription: {description}.\nUser Skills: {user_skills}.\n\nBased on this, return a JSON object with:\n- match_score (High, Medium, or Low)\n- highlights (array of matching skills or strengths)\n- missing_skills (array of skills present in job but missing from user)\n- position (refined position if better than the one provided)\n- company_name (refined company if better than the one provided)",
		},
		{
			Key:   "skill_extraction_prompt",
			Group: "ai_prompts",
			Value: "Extract a clean list of technical skills from this professional summary/experience: \n\n{experience}. \n\nExisting skills: {existing_skills}. \n\nReturn ONLY a comma-separated list of technical skills.",
		},
		{
			Key:   "default_profile_data",
			Group: "defaults",
			Value: `{"skills":["React","PHP","Laravel","CSS"],"experience":"5 years of full-stack development.","preferences":["Remote Only","Full-time"],"seniority":"Senior","tech_stack":["PHP","React","SQLite"]}`,
		},
	}

	now := time.Now().UTC()
	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO settings (key, value, "group", updated_at) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, "group" = EXCLUDED."group", updated_at = EXCLUDED.updated_at`,
			it.Key,
			it.Value,
			it.Group,
			now,
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
