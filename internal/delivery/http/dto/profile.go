package dto

import (
	"jobtrail/internal/domain/profile"

	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	Skills      *[]string `json:"skills"`
	Experience  *string   `json:"experience"`
	Preferences *[]string `json:"preferences"`
	Seniority   *string   `json:"seniority"`
	TechStack   *[]string `json:"tech_stack"`

	LinkedinLink *string `json:"linkedin_link"`
	GithubLink   *string `json:"github_link"`
}

type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Skills      []string  `json:"skills"`
	Experience  string    `json:"experience"`
	Preferences []string  `json:"preferences"`
	Seniority   string    `json:"seniority"`
	TechStack   []string  `json:"tech_stack"`

	LinkedinLink string `json:"linkedin_link,omitempty"`
	GithubLink   string `json:"github_link,omitempty"`

	CVPath             string `json:"cv_path,omitempty"`
	ArbeitszeugnisPath string `json:"arbeitszeugnis_path,omitempty"`
	CertificatePath    string `json:"certificate_path,omitempty"`
	CoverLetterPath    string `json:"cover_letter_path,omitempty"`

	HasEmbedding bool `json:"has_embedding"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewProfileResponse(p *profile.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Skills:      emptyIfNil(p.Skills),
		Experience:  p.Experience,
		Preferences: emptyIfNil(p.Preferences),
		Seniority:   p.Seniority,
		TechStack:   emptyIfNil(p.TechStack),

		LinkedinLink: p.LinkedinLink,
		GithubLink:   p.GithubLink,

		CVPath:             p.CVPath,
		ArbeitszeugnisPath: p.ArbeitszeugnisPath,
		CertificatePath:    p.CertificatePath,
		CoverLetterPath:    p.CoverLetterPath,

		HasEmbedding: len(p.Embedding) > 0,

		CreatedAt: formatTime(p.CreatedAt),
		UpdatedAt: formatTime(p.UpdatedAt),
	}
}
