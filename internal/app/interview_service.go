package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/event"
	"github.com/JoeYatesss/educonnect-api/internal/domain/interview"
	"github.com/JoeYatesss/educonnect-api/internal/domain/job"
	"github.com/JoeYatesss/educonnect-api/internal/domain/teacher"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

type InterviewService struct {
	selections interview.Repository
	teachers   teacher.Repository
	jobs       job.Repository
	engine     *policy.Engine
	events     event.Publisher
	logger     *zap.Logger
}

func NewInterviewService(selections interview.Repository, teachers teacher.Repository, jobs job.Repository, engine *policy.Engine, events event.Publisher, logger *zap.Logger) *InterviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = event.NopPublisher{}
	}
	return &InterviewService{
		selections: selections,
		teachers:   teachers,
		jobs:       jobs,
		engine:     engine,
		events:     events,
		logger:     logger,
	}
}

type SelectInput struct {
	SchoolAccountID common.UUID
	TeacherID       common.UUID
	JobID           *common.UUID
	Notes           string
}

// Select shortlists a teacher for interview. One selection exists per
// (account, teacher, job); a second attempt is a conflict.
func (s *InterviewService) Select(ctx context.Context, actor policy.Actor, in SelectInput) (*interview.Selection, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceInterview, OwnerAccountID: in.SchoolAccountID}, policy.ActionWrite); err != nil {
		return nil, err
	}
	if in.SchoolAccountID.IsZero() || in.TeacherID.IsZero() {
		return nil, common.NewValidationError("school account and teacher are required", nil)
	}
	if _, err := s.teachers.GetByID(ctx, in.TeacherID); err != nil {
		return nil, err
	}
	if in.JobID != nil {
		j, err := s.jobs.GetByID(ctx, *in.JobID)
		if err != nil {
			return nil, err
		}
		if j.SchoolAccountID != in.SchoolAccountID {
			return nil, common.NewValidationError("job belongs to another school account", map[string]string{"job_id": "mismatch"})
		}
	}

	if _, err := s.selections.FindByAccountAndTeacher(ctx, in.SchoolAccountID, in.TeacherID, in.JobID); err == nil {
		return nil, common.NewError(common.CodeConflict, "teacher already selected for interview", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	return s.selections.Create(ctx, interview.Selection{
		SchoolAccountID: in.SchoolAccountID,
		TeacherID:       in.TeacherID,
		JobID:           in.JobID,
		Status:          interview.StatusSelected,
		Notes:           strings.TrimSpace(in.Notes),
	})
}

// UpdateStatus moves a selection through the interview pipeline; the
// repository refreshes status_updated_at on every change.
func (s *InterviewService) UpdateStatus(ctx context.Context, actor policy.Actor, id common.UUID, status interview.Status, notes string) (*interview.Selection, error) {
	sel, err := s.selections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceInterview, OwnerAccountID: sel.SchoolAccountID}, policy.ActionWrite); err != nil {
		return nil, err
	}
	if !interview.IsKnownStatus(status) {
		return nil, common.NewValidationError("unknown interview status", map[string]string{"status": string(status)})
	}
	return s.selections.UpdateStatus(ctx, id, status, strings.TrimSpace(notes))
}

func (s *InterviewService) ListBySchoolAccount(ctx context.Context, actor policy.Actor, accountID common.UUID) ([]interview.Selection, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceInterview, OwnerAccountID: accountID}, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.selections.ListBySchoolAccount(ctx, accountID)
}

func (s *InterviewService) ListByTeacher(ctx context.Context, actor policy.Actor, teacherID common.UUID) ([]interview.Selection, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceInterview, OwnerTeacherID: teacherID}, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.selections.ListByTeacher(ctx, teacherID)
}
