package interview

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled     = "Scheduled"
	StatusWaiting       = "Waiting"
	StatusProcessing    = "Processing"
	StatusCompleted     = "Completed"
	StatusCancelled     = "Cancelled"
	StatusRejected      = "Rejected"
	StatusOfferRejected = "Offer Rejected"
)

// Interview is one tracked interview. The job application link is weak: it
// may be absent at creation and attached later.
type Interview struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	JobApplicationID *uuid.UUID
	CompanyName      string
	Position         string
	InterviewLink    string
	MailContent      string
	Notes            string
	Status           string
	ScheduledAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusWaiting, StatusProcessing, StatusCompleted,
		StatusCancelled, StatusRejected, StatusOfferRejected:
		return true
	}
	return false
}

func (i Interview) IsRejected() bool {
	return strings.EqualFold(strings.TrimSpace(i.Status), StatusRejected)
}
