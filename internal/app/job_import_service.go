package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/job"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

// ImportSummary reports an importer batch. Rows that fail validation or
// persistence are collected, not fatal.
type ImportSummary struct {
	Received int      `json:"received"`
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors,omitempty"`
}

type JobImportService struct {
	jobs   job.Repository
	engine *policy.Engine
	logger *zap.Logger
}

func NewJobImportService(jobs job.Repository, engine *policy.Engine, logger *zap.Logger) *JobImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobImportService{jobs: jobs, engine: engine, logger: logger}
}

// Import upserts externally sourced postings by their (source,
// external_id) pair. Re-delivering a batch never duplicates a posting.
func (s *JobImportService) Import(ctx context.Context, actor policy.Actor, postings []job.Job) (*ImportSummary, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceJob}, policy.ActionWrite); err != nil {
		return nil, err
	}

	summary := &ImportSummary{Received: len(postings)}
	for _, posting := range postings {
		if err := s.upsert(ctx, posting, summary); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s/%s: %v", posting.Source, posting.ExternalID, err))
		}
	}

	s.logger.Info("job import finished",
		zap.Int("received", summary.Received),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("errors", len(summary.Errors)),
	)
	return summary, nil
}

func (s *JobImportService) upsert(ctx context.Context, posting job.Job, summary *ImportSummary) error {
	posting.Source = strings.TrimSpace(posting.Source)
	posting.ExternalID = strings.TrimSpace(posting.ExternalID)
	if posting.Source == "" || posting.Source == job.SourceManual {
		return common.NewValidationError("imported postings need an external source", map[string]string{"source": "required"})
	}
	if posting.ExternalID == "" {
		return common.NewValidationError("external id is required", map[string]string{"external_id": "required"})
	}
	if strings.TrimSpace(posting.Title) == "" {
		return common.NewValidationError("title is required", map[string]string{"title": "required"})
	}

	existing, err := s.jobs.GetBySourceExternalID(ctx, posting.Source, posting.ExternalID)
	switch {
	case err == nil:
		posting.ID = existing.ID
		posting.CreatedAt = existing.CreatedAt
		if _, err := s.jobs.Update(ctx, posting); err != nil {
			return err
		}
		summary.Updated++
		return nil
	case common.Is(err, common.CodeNotFound):
		if _, err := s.jobs.Create(ctx, posting); err != nil {
			if common.Is(err, common.CodeConflict) {
				// Concurrent import of the same posting; retry as update.
				winner, getErr := s.jobs.GetBySourceExternalID(ctx, posting.Source, posting.ExternalID)
				if getErr != nil {
					return getErr
				}
				posting.ID = winner.ID
				posting.CreatedAt = winner.CreatedAt
				if _, err := s.jobs.Update(ctx, posting); err != nil {
					return err
				}
				summary.Updated++
				return nil
			}
			return err
		}
		summary.Created++
		return nil
	default:
		return err
	}
}
