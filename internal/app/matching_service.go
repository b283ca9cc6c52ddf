package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/event"
	"github.com/JoeYatesss/educonnect-api/internal/domain/job"
	"github.com/JoeYatesss/educonnect-api/internal/domain/match"
	"github.com/JoeYatesss/educonnect-api/internal/domain/school"
	"github.com/JoeYatesss/educonnect-api/internal/domain/teacher"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

// Scope narrows a matching run. Empty slices mean "all active rows" for
// that side; targets cover both school records and job postings.
type Scope struct {
	TeacherIDs []common.UUID
	SchoolIDs  []common.UUID
	JobIDs     []common.UUID
}

// Summary reports the outcome of one matching run. Skipped counts
// explicitly scoped rows that turn out inactive and pairs below the
// persistence threshold; the default scope only ever sees active rows.
// Per-pair failures are collected here instead of aborting the run.
type Summary struct {
	PairsScanned int      `json:"pairs_scanned"`
	Created      int      `json:"created"`
	Updated      int      `json:"updated"`
	Unchanged    int      `json:"unchanged"`
	Skipped      int      `json:"skipped"`
	Errors       []string `json:"errors,omitempty"`
}

type MatchingService struct {
	teachers teacher.Repository
	schools  school.Repository
	jobs     job.Repository
	matches  match.Repository
	engine   *policy.Engine
	events   event.Publisher
	logger   *zap.Logger

	// minScore filters which pairs are persisted; 0 persists everything,
	// including zero-score pairs.
	minScore float64
}

func NewMatchingService(teachers teacher.Repository, schools school.Repository, jobs job.Repository, matches match.Repository, engine *policy.Engine, events event.Publisher, logger *zap.Logger) *MatchingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = event.NopPublisher{}
	}
	return &MatchingService{
		teachers: teachers,
		schools:  schools,
		jobs:     jobs,
		matches:  matches,
		engine:   engine,
		events:   events,
		logger:   logger,
	}
}

// WithMinScore sets the persistence threshold for subsequent runs.
func (s *MatchingService) WithMinScore(minScore float64) *MatchingService {
	s.minScore = minScore
	return s
}

type scoredTarget struct {
	target  match.Target
	profile TargetProfile
	active  bool
}

// Run scores every in-scope teacher/target pair and upserts the match
// rows. Re-running with unchanged data creates no new rows; a pair that
// fails to persist is reported in the summary and does not abort the run.
func (s *MatchingService) Run(ctx context.Context, actor policy.Actor, scope Scope) (*Summary, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceMatch}, policy.ActionWrite); err != nil {
		return nil, err
	}

	teachers, err := s.scopedTeachers(ctx, scope)
	if err != nil {
		return nil, err
	}
	targets, skippedTargets, err := s.scopedTargets(ctx, scope)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, t := range teachers {
		if !t.IsActive {
			summary.Skipped += len(targets)
			continue
		}
		for _, target := range targets {
			summary.PairsScanned++
			if err := s.scorePair(ctx, t, target, summary); err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("teacher %s %s %s: %v", t.ID, target.target.Kind, target.target.ID, err))
			}
		}
	}
	summary.Skipped += skippedTargets * len(teachers)

	s.logger.Info("matching run finished",
		zap.Int("pairs_scanned", summary.PairsScanned),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("unchanged", summary.Unchanged),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", len(summary.Errors)),
	)
	return summary, nil
}

func (s *MatchingService) scorePair(ctx context.Context, t teacher.Teacher, target scoredTarget, summary *Summary) error {
	score, reasons := Score(t, target.profile)
	if score < s.minScore {
		existing, err := s.matches.GetByPair(ctx, t.ID, target.target)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				summary.Skipped++
				return nil
			}
			return err
		}
		// Below-threshold pairs with an existing row are still refreshed;
		// submitted matches are never deleted.
		return s.updateExisting(ctx, existing, score, reasons, summary)
	}

	existing, err := s.matches.GetByPair(ctx, t.ID, target.target)
	if err == nil {
		return s.updateExisting(ctx, existing, score, reasons, summary)
	}
	if !common.Is(err, common.CodeNotFound) {
		return err
	}

	created, err := s.matches.Create(ctx, match.Match{
		TeacherID: t.ID,
		Target:    target.target,
		Score:     score,
		Reasons:   reasons,
	})
	if err != nil {
		if common.Is(err, common.CodeConflict) {
			// Another writer inserted the pair first; fall back to update.
			existing, getErr := s.matches.GetByPair(ctx, t.ID, target.target)
			if getErr != nil {
				return getErr
			}
			return s.updateExisting(ctx, existing, score, reasons, summary)
		}
		return err
	}
	summary.Created++
	s.publishMatchCreated(ctx, created)
	return nil
}

func (s *MatchingService) updateExisting(ctx context.Context, existing *match.Match, score float64, reasons []string, summary *Summary) error {
	if existing.Score == score && equalStrings(existing.Reasons, reasons) {
		summary.Unchanged++
		return nil
	}
	if _, err := s.matches.UpdateScore(ctx, existing.ID, score, reasons); err != nil {
		return err
	}
	summary.Updated++
	return nil
}

func (s *MatchingService) scopedTeachers(ctx context.Context, scope Scope) ([]teacher.Teacher, error) {
	if len(scope.TeacherIDs) == 0 {
		return s.teachers.ListActive(ctx)
	}
	return s.teachers.ListByIDs(ctx, scope.TeacherIDs)
}

func (s *MatchingService) scopedTargets(ctx context.Context, scope Scope) ([]scoredTarget, int, error) {
	var targets []scoredTarget
	skipped := 0

	explicit := len(scope.SchoolIDs) > 0 || len(scope.JobIDs) > 0

	var schools []school.School
	var err error
	if len(scope.SchoolIDs) > 0 {
		schools, err = s.schools.ListByIDs(ctx, scope.SchoolIDs)
	} else if !explicit {
		schools, err = s.schools.ListActive(ctx)
	}
	if err != nil {
		return nil, 0, err
	}
	for _, sc := range schools {
		if !sc.IsActive {
			skipped++
			continue
		}
		targets = append(targets, scoredTarget{target: match.SchoolTarget(sc.ID), profile: SchoolProfile(sc)})
	}

	var jobs []job.Job
	if len(scope.JobIDs) > 0 {
		jobs, err = s.jobs.ListByIDs(ctx, scope.JobIDs)
	} else if !explicit {
		jobs, err = s.jobs.ListActive(ctx)
	}
	if err != nil {
		return nil, 0, err
	}
	for _, j := range jobs {
		if !j.IsActive {
			skipped++
			continue
		}
		targets = append(targets, scoredTarget{target: match.JobTarget(j.ID), profile: JobProfile(j)})
	}

	return targets, skipped, nil
}

// ListTeacherMatches returns a teacher's saved matches; teachers see
// their own, admins see all.
func (s *MatchingService) ListTeacherMatches(ctx context.Context, actor policy.Actor, teacherID common.UUID) ([]match.Match, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceMatch, OwnerTeacherID: teacherID}, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.matches.ListByTeacher(ctx, teacherID)
}

// ListJobMatches returns matches against one posting for the school
// account that owns it.
func (s *MatchingService) ListJobMatches(ctx context.Context, actor policy.Actor, jobID common.UUID) ([]match.Match, error) {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceMatch, OwnerAccountID: j.SchoolAccountID}, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.matches.ListByTarget(ctx, match.JobTarget(jobID))
}

func (s *MatchingService) publishMatchCreated(ctx context.Context, m *match.Match) {
	err := s.events.Publish(ctx, event.Event{
		Name: event.NameMatchCreated,
		Payload: map[string]string{
			"match_id":    m.ID.String(),
			"teacher_id":  m.TeacherID.String(),
			"target_kind": string(m.Target.Kind),
			"target_id":   m.Target.ID.String(),
			"score":       fmt.Sprintf("%.2f", m.Score),
		},
	})
	if err != nil {
		s.logger.Warn("failed to publish match.created", zap.Error(err))
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
