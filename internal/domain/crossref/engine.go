package crossref

import (
	"fmt"
	"strings"

	"jobtrail/internal/domain/interview"
	"jobtrail/internal/domain/job"
)

// Conflict types surfaced to callers alongside a 409.
const (
	TypeDuplicateInterview = "duplicate_interview"
	TypePreviousRejection  = "previous_rejection"
)

// Company-check states, in priority order.
const (
	CheckStatusWarning = "warning"
	CheckStatusInfo    = "info"
	CheckStatusClean   = "clean"

	CheckTypeInterview   = "interview"
	CheckTypeRejected    = "rejected"
	CheckTypeApplication = "application"
)

// Conflict describes a duplicate or contradictory record found while
// creating an application or interview.
type Conflict struct {
	Type    string
	Message string
}

// CompanyCheck is the result of the non-mutating duplicate-check query.
type CompanyCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
}

// EmployerMatches reports whether two employer names fuzzy-match:
// case-insensitive substring comparison in either direction.
func EmployerMatches(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// EmployerKey normalizes an employer name into the key used to serialize
// create/cascade sequences per (user, employer).
func EmployerKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}

// ApplicationCreateConflict evaluates the creation of an application
// against the records already stored for a fuzzy-matching employer.
// Either record may be nil when no match exists.
func ApplicationCreateConflict(existingInterview *interview.Interview, rejectedApplication *job.Application) *Conflict {
	if existingInterview != nil {
		verb := "already have a " + strings.ToLower(existingInterview.Status) + " interview with"
		if existingInterview.IsRejected() {
			verb = "were rejected by"
		}
		return &Conflict{
			Type: TypeDuplicateInterview,
			Message: fmt.Sprintf("Warning: You %s %s for the %s position. Please check your Interviews tab.",
				verb, existingInterview.CompanyName, existingInterview.Position),
		}
	}

	if rejectedApplication != nil && rejectedApplication.IsRejected() {
		return &Conflict{
			Type: TypePreviousRejection,
			Message: fmt.Sprintf("You were previously rejected by %s. Re-applying might not be effective right now.",
				rejectedApplication.CompanyName),
		}
	}

	return nil
}

// InterviewCreateOutcome is the decision for an interview create that found
// an existing interview for the same employer.
type InterviewCreateOutcome struct {
	// AttachLink is set when the new payload references an application and
	// the existing interview is unlinked: the link is attached and the
	// existing record returned instead of creating a duplicate.
	AttachLink bool
	Conflict   *Conflict
}

// InterviewCreateDecision resolves an interview create against an existing
// fuzzy-matching interview. hasApplicationRef is true when the incoming
// payload carries a job application id.
func InterviewCreateDecision(existing *interview.Interview, hasApplicationRef bool) InterviewCreateOutcome {
	if existing == nil {
		return InterviewCreateOutcome{}
	}
	if hasApplicationRef && existing.JobApplicationID == nil {
		return InterviewCreateOutcome{AttachLink: true}
	}
	return InterviewCreateOutcome{
		Conflict: &Conflict{
			Type: TypeDuplicateInterview,
			Message: fmt.Sprintf("Warning: You already have a scheduled or completed interview with %s for the position of %s.",
				existing.CompanyName, existing.Position),
		},
	}
}

// CheckCompany resolves the standalone duplicate-check query. Both records
// were already fuzzy-matched against the queried name; either may be nil.
// Priority: interview > rejected application > application > clean.
func CheckCompany(existingInterview *interview.Interview, existingApplication *job.Application) CompanyCheck {
	if existingInterview != nil {
		statusText := "is currently " + strings.ToLower(existingInterview.Status)
		if existingInterview.IsRejected() {
			statusText = "was rejected post-interview"
		}
		return CompanyCheck{
			Status: CheckStatusWarning,
			Message: fmt.Sprintf("Existing interview found for %s which %s. Please check your Interviews tab.",
				existingInterview.CompanyName, statusText),
			Type: CheckTypeInterview,
		}
	}

	if existingApplication != nil && existingApplication.IsRejected() {
		return CompanyCheck{
			Status: CheckStatusWarning,
			Message: fmt.Sprintf("You were previously rejected by %s. Waiting for further response might be better.",
				existingApplication.CompanyName),
			Type: CheckTypeRejected,
		}
	}

	if existingApplication != nil {
		return CompanyCheck{
			Status: CheckStatusInfo,
			Message: fmt.Sprintf("Existing application found for %s as %s. Current status: %s.",
				existingApplication.CompanyName, existingApplication.Position, existingApplication.Status),
			Type: CheckTypeApplication,
		}
	}

	return CompanyCheck{Status: CheckStatusClean}
}
