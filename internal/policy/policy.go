package policy

import (
	"github.com/JoeYatesss/educonnect-api/internal/common"
)

type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleTeacher   Role = "teacher"
	RoleSchool    Role = "school"
	RoleAdmin     Role = "admin"
	// RoleService is the trusted backend identity used by batch jobs and
	// the payment webhook consumer; it bypasses row-level checks.
	RoleService Role = "service"
)

type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// Actor is the verified caller identity supplied by the outer auth layer.
// ID is the teacher id for teacher actors and the school account id for
// school actors.
type Actor struct {
	Role    Role
	ID      common.UUID
	HasPaid bool
}

func Anonymous() Actor {
	return Actor{Role: RoleAnonymous}
}

// SystemActorID is the identity recorded in audit columns (submitted_by,
// changed_by) for changes made by the service actor. The columns are
// NOT NULL, so the batch identity needs a real uuid.
var SystemActorID = common.UUID("00000000-0000-0000-0000-000000000001")

func Service() Actor {
	return Actor{Role: RoleService, ID: SystemActorID}
}

type ResourceKind string

const (
	ResourceTeacher       ResourceKind = "teacher"
	ResourceSchool        ResourceKind = "school"
	ResourceJob           ResourceKind = "job"
	ResourceMatch         ResourceKind = "match"
	ResourceApplication   ResourceKind = "application"
	ResourceStatusHistory ResourceKind = "status_history"
	ResourcePayment       ResourceKind = "payment"
	ResourceInterview     ResourceKind = "interview_selection"
	ResourceJobInterest   ResourceKind = "job_interest"
)

// Resource describes the row a check applies to. Ownership fields are
// filled per kind: OwnerTeacherID when a teacher owns the row,
// OwnerAccountID when a school account does; either may be zero.
type Resource struct {
	Kind           ResourceKind
	OwnerTeacherID common.UUID
	OwnerAccountID common.UUID
	IsActive       bool
	// TeacherLevel distinguishes teacher-level status history rows, the
	// only history variant exposed to teachers.
	TeacherLevel bool
}

// Engine evaluates per-row visibility and mutation rules. Decide returns
// nil when the actor may perform the action, a forbidden-coded error
// otherwise; services call it before touching the store.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Decide(actor Actor, resource Resource, action Action) error {
	if e.allowed(actor, resource, action) {
		return nil
	}
	return common.NewError(common.CodeForbidden, "access denied for "+string(resource.Kind), nil)
}

func (e *Engine) allowed(actor Actor, resource Resource, action Action) bool {
	switch actor.Role {
	case RoleService, RoleAdmin:
		return true
	case RoleTeacher:
		return e.teacherAllowed(actor, resource, action)
	case RoleSchool:
		return e.schoolAllowed(actor, resource, action)
	default:
		return e.anonymousAllowed(resource, action)
	}
}

func (e *Engine) teacherAllowed(actor Actor, resource Resource, action Action) bool {
	owns := !actor.ID.IsZero() && resource.OwnerTeacherID == actor.ID
	switch resource.Kind {
	case ResourceTeacher:
		return owns
	case ResourceMatch, ResourceApplication, ResourcePayment, ResourceInterview:
		return owns && action == ActionRead
	case ResourceStatusHistory:
		return owns && resource.TeacherLevel && action == ActionRead
	default:
		return false
	}
}

func (e *Engine) schoolAllowed(actor Actor, resource Resource, action Action) bool {
	owns := !actor.ID.IsZero() && resource.OwnerAccountID == actor.ID
	switch resource.Kind {
	case ResourceTeacher:
		// Browsing teacher profiles is payment-gated.
		return actor.HasPaid && action == ActionRead
	case ResourceSchool, ResourceJob, ResourceInterview:
		return owns
	case ResourceMatch, ResourcePayment:
		return owns && action == ActionRead
	default:
		return false
	}
}

func (e *Engine) anonymousAllowed(resource Resource, action Action) bool {
	switch resource.Kind {
	case ResourceJob:
		return resource.IsActive && action == ActionRead
	case ResourceJobInterest:
		// Public interest form: insert-only.
		return action == ActionWrite
	default:
		return false
	}
}
