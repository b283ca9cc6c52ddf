package match

import (
	"context"

	"github.com/JoeYatesss/educonnect-api/internal/common"
)

type Repository interface {
	// Create fails with a conflict error when a row for the pair already
	// exists; callers racing another writer fall back to UpdateScore.
	Create(ctx context.Context, m Match) (*Match, error)
	UpdateScore(ctx context.Context, id common.UUID, score float64, reasons []string) (*Match, error)
	GetByID(ctx context.Context, id common.UUID) (*Match, error)
	GetByPair(ctx context.Context, teacherID common.UUID, target Target) (*Match, error)
	ListByTeacher(ctx context.Context, teacherID common.UUID) ([]Match, error)
	ListByTarget(ctx context.Context, target Target) ([]Match, error)
	MarkSubmitted(ctx context.Context, id common.UUID) error
}
