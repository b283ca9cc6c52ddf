package interview

import (
	"time"

	"github.com/JoeYatesss/educonnect-api/internal/common"
)

type Status string

const (
	StatusSelected           Status = "selected_for_interview"
	StatusInterviewScheduled Status = "interview_scheduled"
	StatusInterviewCompleted Status = "interview_completed"
	StatusOfferExtended      Status = "offer_extended"
	StatusOfferAccepted      Status = "offer_accepted"
	StatusOfferDeclined      Status = "offer_declined"
	StatusWithdrawn          Status = "withdrawn"
)

func IsKnownStatus(status Status) bool {
	switch status {
	case StatusSelected, StatusInterviewScheduled, StatusInterviewCompleted,
		StatusOfferExtended, StatusOfferAccepted, StatusOfferDeclined, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// Selection is a school's shortlisting of a teacher for one of its jobs.
// StatusUpdatedAt refreshes on every status change.
type Selection struct {
	ID              common.UUID  `json:"id"`
	SchoolAccountID common.UUID  `json:"school_account_id"`
	TeacherID       common.UUID  `json:"teacher_id"`
	JobID           *common.UUID `json:"job_id,omitempty"`
	Status          Status       `json:"status"`
	Notes           string       `json:"notes,omitempty"`
	SelectedAt      time.Time    `json:"selected_at"`
	StatusUpdatedAt time.Time    `json:"status_updated_at"`
}
