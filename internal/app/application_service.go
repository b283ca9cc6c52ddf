package app

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/application"
	"github.com/JoeYatesss/educonnect-api/internal/domain/event"
	"github.com/JoeYatesss/educonnect-api/internal/domain/job"
	"github.com/JoeYatesss/educonnect-api/internal/domain/match"
	"github.com/JoeYatesss/educonnect-api/internal/domain/school"
	"github.com/JoeYatesss/educonnect-api/internal/domain/teacher"
	"github.com/JoeYatesss/educonnect-api/internal/domain/workflow"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

type ApplicationService struct {
	apps     application.Repository
	teachers teacher.Repository
	schools  school.Repository
	jobs     job.Repository
	matches  match.Repository
	engine   *policy.Engine
	events   event.Publisher
	logger   *zap.Logger
	rules    workflow.Rules
}

func NewApplicationService(apps application.Repository, teachers teacher.Repository, schools school.Repository, jobs job.Repository, matches match.Repository, engine *policy.Engine, events event.Publisher, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = event.NopPublisher{}
	}
	return &ApplicationService{
		apps:     apps,
		teachers: teachers,
		schools:  schools,
		jobs:     jobs,
		matches:  matches,
		engine:   engine,
		events:   events,
		logger:   logger,
		rules:    workflow.DefaultRules(),
	}
}

// WithRules overrides the transition rules. The allowed forward-skip
// distance is a business setting, not a constant.
func (s *ApplicationService) WithRules(rules workflow.Rules) *ApplicationService {
	s.rules = rules
	return s
}

type SubmitInput struct {
	TeacherID common.UUID
	Target    match.Target
	MatchID   *common.UUID
	Notes     string
}

// Submit promotes a teacher into a formal application against a school or
// job. The application starts at pending with its initial history row; an
// open (non-declined) application for the same pair is a conflict.
func (s *ApplicationService) Submit(ctx context.Context, actor policy.Actor, in SubmitInput) (*application.Application, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceApplication}, policy.ActionWrite); err != nil {
		return nil, err
	}
	if in.TeacherID.IsZero() {
		return nil, common.NewValidationError("teacher id is required", map[string]string{"teacher_id": "required"})
	}
	if err := in.Target.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.teachers.GetByID(ctx, in.TeacherID); err != nil {
		return nil, err
	}
	if err := s.checkTargetExists(ctx, in.Target); err != nil {
		return nil, err
	}

	if _, err := s.apps.FindOpenByPair(ctx, in.TeacherID, in.Target); err == nil {
		return nil, common.NewError(common.CodeConflict, "an open application already exists for this pair", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	if in.MatchID != nil {
		m, err := s.matches.GetByID(ctx, *in.MatchID)
		if err != nil {
			return nil, err
		}
		if m.TeacherID != in.TeacherID || m.Target != in.Target {
			return nil, common.NewValidationError("match does not belong to this pair", map[string]string{"match_id": "mismatch"})
		}
	}

	created, err := s.apps.Create(ctx, application.Application{
		TeacherID:   in.TeacherID,
		Target:      in.Target,
		MatchID:     in.MatchID,
		Status:      workflow.StatusPending,
		SubmittedBy: actor.ID,
		Notes:       strings.TrimSpace(in.Notes),
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if in.MatchID != nil {
		if err := s.matches.MarkSubmitted(ctx, *in.MatchID); err != nil {
			s.logger.Warn("failed to flag match as submitted", zap.String("match_id", in.MatchID.String()), zap.Error(err))
		}
	}

	s.publishStatusChanged(ctx, actor, "application", created.ID, nil, created.Status)
	return created, nil
}

// TransitionOption adjusts a single transition call.
type TransitionOption func(*workflow.Rules)

// WithMaxSkip widens the allowed forward-skip distance for one call; used
// for explicit administrative overrides.
func WithMaxSkip(maxSkip int) TransitionOption {
	return func(r *workflow.Rules) {
		r.MaxSkip = maxSkip
	}
}

// Transition moves an application to a new status. The status update and
// its history row are written in one transaction by the repository.
func (s *ApplicationService) Transition(ctx context.Context, actor policy.Actor, id common.UUID, to workflow.Status, notes string, opts ...TransitionOption) (*application.Application, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceApplication}, policy.ActionWrite); err != nil {
		return nil, err
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	to = workflow.Normalize(to)
	if !workflow.IsKnown(to) {
		return nil, common.NewValidationError("unknown status", map[string]string{"status": string(to)})
	}

	rules := s.rules
	for _, opt := range opts {
		opt(&rules)
	}
	from := workflow.Normalize(app.Status)
	if !rules.CanTransition(from, to) {
		return nil, common.NewError(common.CodeInvalidTransition, "cannot move application from "+string(from)+" to "+string(to), nil)
	}

	fromCopy := from
	updated, err := s.apps.UpdateStatusWithHistory(ctx, id, to, application.StatusHistory{
		ApplicationID: id,
		FromStatus:    &fromCopy,
		ToStatus:      to,
		ChangedBy:     actor.ID,
		Notes:         strings.TrimSpace(notes),
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, actor, "application", updated.ID, &fromCopy, to)
	return updated, nil
}

// TransitionTeacher advances the teacher-level status. It shares the
// vocabulary and rules with application transitions but moves
// independently of any single application.
func (s *ApplicationService) TransitionTeacher(ctx context.Context, actor policy.Actor, teacherID common.UUID, to workflow.Status, notes string, opts ...TransitionOption) (*teacher.Teacher, error) {
	if actor.Role != policy.RoleAdmin && actor.Role != policy.RoleService {
		return nil, common.NewError(common.CodeForbidden, "status changes require administrative capability", nil)
	}
	t, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	to = workflow.Normalize(to)
	if !workflow.IsKnown(to) {
		return nil, common.NewValidationError("unknown status", map[string]string{"status": string(to)})
	}

	rules := s.rules
	for _, opt := range opts {
		opt(&rules)
	}
	from := workflow.Normalize(t.Status)
	if !rules.CanTransition(from, to) {
		return nil, common.NewError(common.CodeInvalidTransition, "cannot move teacher from "+string(from)+" to "+string(to), nil)
	}

	fromCopy := from
	updated, err := s.teachers.UpdateStatusWithHistory(ctx, teacherID, to, teacher.StatusHistory{
		TeacherID:  teacherID,
		FromStatus: &fromCopy,
		ToStatus:   to,
		ChangedBy:  actor.ID,
		Notes:      strings.TrimSpace(notes),
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, actor, "teacher", teacherID, &fromCopy, to)
	return updated, nil
}

func (s *ApplicationService) Get(ctx context.Context, actor policy.Actor, id common.UUID) (*application.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceApplication, OwnerTeacherID: app.TeacherID}, policy.ActionRead); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) ListByTeacher(ctx context.Context, actor policy.Actor, teacherID common.UUID) ([]application.Application, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceApplication, OwnerTeacherID: teacherID}, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.apps.ListByTeacher(ctx, teacherID)
}

// History returns the application-level audit trail; admin only.
func (s *ApplicationService) History(ctx context.Context, actor policy.Actor, applicationID common.UUID) ([]application.StatusHistory, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceStatusHistory}, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.apps.ListHistory(ctx, applicationID)
}

// TeacherHistory returns the teacher-level trail; teachers may read their own.
func (s *ApplicationService) TeacherHistory(ctx context.Context, actor policy.Actor, teacherID common.UUID) ([]teacher.StatusHistory, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceStatusHistory, OwnerTeacherID: teacherID, TeacherLevel: true}, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.teachers.ListHistory(ctx, teacherID)
}

func (s *ApplicationService) checkTargetExists(ctx context.Context, target match.Target) error {
	switch target.Kind {
	case match.TargetSchool:
		sc, err := s.schools.GetByID(ctx, target.ID)
		if err != nil {
			return err
		}
		if !sc.IsActive {
			return common.NewValidationError("school is inactive", map[string]string{"target": "inactive"})
		}
	case match.TargetJob:
		j, err := s.jobs.GetByID(ctx, target.ID)
		if err != nil {
			return err
		}
		if !j.IsActive {
			return common.NewValidationError("job is inactive", map[string]string{"target": "inactive"})
		}
	}
	return nil
}

func (s *ApplicationService) publishStatusChanged(ctx context.Context, actor policy.Actor, entity string, id common.UUID, from *workflow.Status, to workflow.Status) {
	payload := map[string]string{
		"entity": entity,
		"id":     id.String(),
		"to":     string(to),
	}
	if from != nil {
		payload["from"] = string(*from)
	}
	actorID := actor.ID
	err := s.events.Publish(ctx, event.Event{Name: event.NameStatusChanged, ActorID: &actorID, Payload: payload})
	if err != nil {
		s.logger.Warn("failed to publish status.changed", zap.Error(err))
	}
}
