package app

import (
	"context"
	"strings"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/job"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

type JobService struct {
	jobs      job.Repository
	interests job.InterestRepository
	engine    *policy.Engine
}

func NewJobService(jobs job.Repository, interests job.InterestRepository, engine *policy.Engine) *JobService {
	return &JobService{jobs: jobs, interests: interests, engine: engine}
}

// CreatePosting adds a school-authored posting. Imported postings go
// through JobImportService instead.
func (s *JobService) CreatePosting(ctx context.Context, actor policy.Actor, j job.Job) (*job.Job, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceJob, OwnerAccountID: j.SchoolAccountID}, policy.ActionWrite); err != nil {
		return nil, err
	}
	j.Title = strings.TrimSpace(j.Title)
	if j.Title == "" {
		return nil, common.NewValidationError("title is required", map[string]string{"title": "required"})
	}
	if j.SalaryMin > 0 && j.SalaryMax > 0 && j.SalaryMin > j.SalaryMax {
		return nil, common.NewValidationError("salary range is inverted", map[string]string{"salary_min": "exceeds salary_max"})
	}
	j.Source = job.SourceManual
	j.ExternalID = ""
	j.IsActive = true
	return s.jobs.Create(ctx, j)
}

func (s *JobService) UpdatePosting(ctx context.Context, actor policy.Actor, j job.Job) (*job.Job, error) {
	existing, err := s.jobs.GetByID(ctx, j.ID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceJob, OwnerAccountID: existing.SchoolAccountID}, policy.ActionWrite); err != nil {
		return nil, err
	}
	j.SchoolAccountID = existing.SchoolAccountID
	j.Source = existing.Source
	j.ExternalID = existing.ExternalID
	j.CreatedAt = existing.CreatedAt
	return s.jobs.Update(ctx, j)
}

// DeactivatePosting hides a posting from matching and public listing.
func (s *JobService) DeactivatePosting(ctx context.Context, actor policy.Actor, id common.UUID) error {
	existing, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceJob, OwnerAccountID: existing.SchoolAccountID}, policy.ActionWrite); err != nil {
		return err
	}
	return s.jobs.SetActive(ctx, id, false)
}

func (s *JobService) Get(ctx context.Context, actor policy.Actor, id common.UUID) (*job.Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceJob, OwnerAccountID: j.SchoolAccountID, IsActive: j.IsActive}, policy.ActionRead); err != nil {
		return nil, err
	}
	return j, nil
}

// ListActive is the public board: active postings only, readable by anyone.
func (s *JobService) ListActive(ctx context.Context, actor policy.Actor) ([]job.Job, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceJob, IsActive: true}, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.jobs.ListActive(ctx)
}

func (s *JobService) ListBySchoolAccount(ctx context.Context, actor policy.Actor, accountID common.UUID) ([]job.Job, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceJob, OwnerAccountID: accountID}, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.jobs.ListBySchoolAccount(ctx, accountID)
}

// SubmitInterest records a public expression of interest; insert-only,
// open to anonymous callers.
func (s *JobService) SubmitInterest(ctx context.Context, actor policy.Actor, in job.Interest) (*job.Interest, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceJobInterest}, policy.ActionWrite); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, common.NewValidationError("a valid email is required", map[string]string{"email": "invalid"})
	}
	j, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, err
	}
	if !j.IsActive {
		return nil, common.NewValidationError("job is no longer active", map[string]string{"job_id": "inactive"})
	}
	return s.interests.Create(ctx, in)
}

// ListInterests exposes submissions to admins.
func (s *JobService) ListInterests(ctx context.Context, actor policy.Actor, jobID common.UUID) ([]job.Interest, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceJobInterest}, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.interests.ListByJob(ctx, jobID)
}
