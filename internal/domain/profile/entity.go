package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile holds the user's declared skills and experience, plus the
// embedding derived from them for semantic scoring.
type Profile struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Skills      []string
	Experience  string
	Preferences []string
	Seniority   string
	TechStack   []string

	LinkedinLink string
	GithubLink   string

	CVPath             string
	ArbeitszeugnisPath string
	CertificatePath    string
	CoverLetterPath    string

	Embedding []float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizedSkills returns the declared skills lowercased and trimmed, the
// form used for matched/missing comparisons.
func (p Profile) NormalizedSkills() []string {
	out := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// HasSkill reports whether the profile declares the given label,
// case-insensitively.
func (p Profile) HasSkill(label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, s := range p.Skills {
		if strings.ToLower(strings.TrimSpace(s)) == label {
			return true
		}
	}
	return false
}

// EmbeddingText is the text blob the profile embedding is derived from.
func (p Profile) EmbeddingText() string {
	return strings.TrimSpace(p.Experience + " " + strings.Join(p.Skills, ", "))
}
