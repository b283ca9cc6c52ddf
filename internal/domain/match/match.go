package match

import (
	"time"

	"github.com/JoeYatesss/educonnect-api/internal/common"
)

type TargetKind string

const (
	TargetSchool TargetKind = "school"
	TargetJob    TargetKind = "job"
)

// Target identifies the hiring side of a match. Exactly one kind is set;
// the tagged form replaces the two-nullable-columns shape so the
// school-xor-job rule holds by construction.
type Target struct {
	Kind TargetKind  `json:"kind"`
	ID   common.UUID `json:"id"`
}

func SchoolTarget(id common.UUID) Target {
	return Target{Kind: TargetSchool, ID: id}
}

func JobTarget(id common.UUID) Target {
	return Target{Kind: TargetJob, ID: id}
}

func (t Target) Validate() error {
	if t.ID.IsZero() {
		return common.NewError(common.CodeValidation, "match target id is required", nil)
	}
	switch t.Kind {
	case TargetSchool, TargetJob:
		return nil
	default:
		return common.NewError(common.CodeValidation, "match target kind must be school or job", nil)
	}
}

// Match is a scored teacher/target link. At most one row exists per
// (teacher, target) pair; re-scoring updates in place.
type Match struct {
	ID          common.UUID `json:"id"`
	TeacherID   common.UUID `json:"teacher_id"`
	Target      Target      `json:"target"`
	Score       float64     `json:"score"`
	Reasons     []string    `json:"reasons"`
	IsSubmitted bool        `json:"is_submitted"`
	MatchedAt   time.Time   `json:"matched_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
