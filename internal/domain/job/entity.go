package job

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "Pending"
	StatusApplied   = "Applied"
	StatusInterview = "Interview"
	StatusSelected  = "Selected"
	StatusRejected  = "Rejected"
)

const (
	TierHigh   = "High"
	TierMedium = "Medium"
	TierLow    = "Low"
)

// Application is one tracked job application. The apply link is unique per
// user; re-analysis of the same link mutates the analysis fields in place
// without touching identity or status.
type Application struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	CompanyName   string
	Position      string
	ApplyLink     string
	MatchScore    string
	Status        string
	Description   string
	Highlights    []string
	MissingSkills []string
	Embedding     []float64
	SemanticScore float64

	TailoredCV              string
	TailoredCoverLetter     string
	TailoredCVPath          string
	TailoredCoverLetterPath string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApplied, StatusInterview, StatusSelected, StatusRejected:
		return true
	}
	return false
}

func ValidTier(s string) bool {
	switch s {
	case TierHigh, TierMedium, TierLow:
		return true
	}
	return false
}

// IsRejected reports whether the application carries a rejected status,
// tolerating caller-supplied casing.
func (a Application) IsRejected() bool {
	return strings.EqualFold(strings.TrimSpace(a.Status), StatusRejected)
}
