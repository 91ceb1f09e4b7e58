package usecase

import (
	"errors"

	"jobtrail/internal/domain/crossref"
	"jobtrail/internal/domain/interview"
)

var (
	ErrInternal     = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrInvalidLink rejects apply links that are not http(s) URLs.
	ErrInvalidLink = errors.New("please provide a valid job link starting with http or https")
)

// ConflictError carries a cross-reference conflict up to the delivery
// layer, which maps it to a 409 with the conflict type attached. For
// interview creates the already-existing record rides along.
type ConflictError struct {
	Conflict  crossref.Conflict
	Interview *interview.Interview
}

func (e *ConflictError) Error() string {
	return e.Conflict.Message
}
