package application

import (
	"time"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/match"
	"github.com/JoeYatesss/educonnect-api/internal/domain/workflow"
)

// Application is a formally submitted candidacy: a teacher put forward to
// a school or job by an admin, tracked through the placement pipeline.
type Application struct {
	ID          common.UUID     `json:"id"`
	TeacherID   common.UUID     `json:"teacher_id"`
	Target      match.Target    `json:"target"`
	MatchID     *common.UUID    `json:"match_id,omitempty"`
	Status      workflow.Status `json:"status"`
	SubmittedBy common.UUID     `json:"submitted_by"`
	Notes       string          `json:"notes,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StatusHistory is the application-level audit record, append-only.
type StatusHistory struct {
	ID            common.UUID      `json:"id"`
	ApplicationID common.UUID      `json:"application_id"`
	FromStatus    *workflow.Status `json:"from_status,omitempty"`
	ToStatus      workflow.Status  `json:"to_status"`
	ChangedBy     common.UUID      `json:"changed_by"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
