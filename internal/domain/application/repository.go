package application

import (
	"context"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/match"
	"github.com/JoeYatesss/educonnect-api/internal/domain/workflow"
)

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	// FindOpenByPair returns the non-declined application for the pair,
	// or a not-found error when none exists.
	FindOpenByPair(ctx context.Context, teacherID common.UUID, target match.Target) (*Application, error)
	ListByTeacher(ctx context.Context, teacherID common.UUID) ([]Application, error)
	ListByTarget(ctx context.Context, target match.Target) ([]Application, error)

	// UpdateStatusWithHistory applies the status change and appends the
	// history row in a single transaction.
	UpdateStatusWithHistory(ctx context.Context, id common.UUID, status workflow.Status, history StatusHistory) (*Application, error)
	ListHistory(ctx context.Context, applicationID common.UUID) ([]StatusHistory, error)
}
