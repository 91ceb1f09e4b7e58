package dto

import (
	"time"

	"jobtrail/internal/domain/job"

	"github.com/google/uuid"
)

type CreateJobRequest struct {
	ApplyLink string `json:"apply_link"`
}

type UpdateJobRequest struct {
	CompanyName *string `json:"company_name"`
	Position    *string `json:"position"`
	ApplyLink   *string `json:"apply_link"`
	Status      *string `json:"status"`
}

type BulkDeleteJobsRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type JobResponse struct {
	ID            uuid.UUID `json:"id"`
	CompanyName   string    `json:"company_name"`
	Position      string    `json:"position"`
	ApplyLink     string    `json:"apply_link"`
	MatchScore    string    `json:"match_score"`
	Status        string    `json:"status"`
	Description   string    `json:"description"`
	Highlights    []string  `json:"highlights"`
	MissingSkills []string  `json:"missing_skills"`
	SemanticScore float64   `json:"semantic_score"`

	TailoredCVPath          string `json:"tailored_cv_path,omitempty"`
	TailoredCoverLetterPath string `json:"tailored_cover_letter_path,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewJobResponse(app *job.Application) JobResponse {
	return JobResponse{
		ID:            app.ID,
		CompanyName:   app.CompanyName,
		Position:      app.Position,
		ApplyLink:     app.ApplyLink,
		MatchScore:    app.MatchScore,
		Status:        app.Status,
		Description:   app.Description,
		Highlights:    emptyIfNil(app.Highlights),
		MissingSkills: emptyIfNil(app.MissingSkills),
		SemanticScore: app.SemanticScore,

		TailoredCVPath:          app.TailoredCVPath,
		TailoredCoverLetterPath: app.TailoredCoverLetterPath,

		CreatedAt: formatTime(app.CreatedAt),
		UpdatedAt: formatTime(app.UpdatedAt),
	}
}

func NewJobListResponse(apps []job.Application) []JobResponse {
	out := make([]JobResponse, 0, len(apps))
	for i := range apps {
		out = append(out, NewJobResponse(&apps[i]))
	}
	return out
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
