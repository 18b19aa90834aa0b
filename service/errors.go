package service

import (
	"errors"
	"fmt"
)

// Typed outcomes shared across services. Handlers translate these into HTTP
// statuses; nothing is retried automatically.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrCampaignClosed  = errors.New("campaign is closed")
	ErrDuplicateEmail  = errors.New("email already in use")
	ErrSelfDelete      = errors.New("cannot delete your own account")
	ErrInvalidTarget   = errors.New("reassignment target user not found")
	ErrNoResponses     = errors.New("no responses found for this campaign")
	ErrInvalidPassword = errors.New("invalid password")
	ErrReportNotPublic = errors.New("this report is not publicly available")
)

// ReassignmentRequiredError blocks a user delete while owned data exists. It
// carries the exact counts so the caller can re-prompt with a target.
type ReassignmentRequiredError struct {
	Campaigns int64
	Notes     int64
}

func (e *ReassignmentRequiredError) Error() string {
	return fmt.Sprintf("user owns %d campaigns and %d notes, reassignment required", e.Campaigns, e.Notes)
}
