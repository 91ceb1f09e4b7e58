package dto

import (
	"time"

	"jobtrail/internal/domain/interview"

	"github.com/google/uuid"
)

type CreateInterviewRequest struct {
	JobApplicationID *uuid.UUID `json:"job_application_id"`
	CompanyName      string     `json:"company_name"`
	Position         string     `json:"position"`
	InterviewLink    string     `json:"interview_link"`
	MailContent      string     `json:"mail_content"`
	Notes            string     `json:"notes"`
	Status           string     `json:"status"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
}

type UpdateInterviewRequest struct {
	CompanyName   *string    `json:"company_name"`
	Position      *string    `json:"position"`
	InterviewLink *string    `json:"interview_link"`
	MailContent   *string    `json:"mail_content"`
	Notes         *string    `json:"notes"`
	Status        *string    `json:"status"`
	ScheduledAt   *time.Time `json:"scheduled_at"`
}

type InterviewResponse struct {
	ID               uuid.UUID  `json:"id"`
	JobApplicationID *uuid.UUID `json:"job_application_id"`
	CompanyName      string     `json:"company_name"`
	Position         string     `json:"position"`
	InterviewLink    string     `json:"interview_link,omitempty"`
	MailContent      string     `json:"mail_content,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Status           string     `json:"status"`
	ScheduledAt      *string    `json:"scheduled_at"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewInterviewResponse(iv *interview.Interview) InterviewResponse {
	var scheduled *string
	if iv.ScheduledAt != nil {
		s := iv.ScheduledAt.UTC().Format(time.RFC3339)
		scheduled = &s
	}
	return InterviewResponse{
		ID:               iv.ID,
		JobApplicationID: iv.JobApplicationID,
		CompanyName:      iv.CompanyName,
		Position:         iv.Position,
		InterviewLink:    iv.InterviewLink,
		MailContent:      iv.MailContent,
		Notes:            iv.Notes,
		Status:           iv.Status,
		ScheduledAt:      scheduled,

		CreatedAt: formatTime(iv.CreatedAt),
		UpdatedAt: formatTime(iv.UpdatedAt),
	}
}

func NewInterviewListResponse(items []interview.Interview) []InterviewResponse {
	out := make([]InterviewResponse, 0, len(items))
	for i := range items {
		out = append(out, NewInterviewResponse(&items[i]))
	}
	return out
}
