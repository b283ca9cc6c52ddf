package job

import (
	"context"

	"github.com/JoeYatesss/educonnect-api/internal/common"
)

type Repository interface {
	Create(ctx context.Context, j Job) (*Job, error)
	Update(ctx context.Context, j Job) (*Job, error)
	GetByID(ctx context.Context, id common.UUID) (*Job, error)
	GetBySourceExternalID(ctx context.Context, source, externalID string) (*Job, error)
	ListActive(ctx context.Context) ([]Job, error)
	ListByIDs(ctx context.Context, ids []common.UUID) ([]Job, error)
	ListBySchoolAccount(ctx context.Context, accountID common.UUID) ([]Job, error)
	SetActive(ctx context.Context, id common.UUID, active bool) error
}
