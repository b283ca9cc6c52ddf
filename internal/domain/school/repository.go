package school

import (
	"context"

	"github.com/JoeYatesss/educonnect-api/internal/common"
)

type Repository interface {
	Create(ctx context.Context, s School) (*School, error)
	Update(ctx context.Context, s School) (*School, error)
	GetByID(ctx context.Context, id common.UUID) (*School, error)
	ListActive(ctx context.Context) ([]School, error)
	ListByIDs(ctx context.Context, ids []common.UUID) ([]School, error)
	SetActive(ctx context.Context, id common.UUID, active bool) error
}

type AccountRepository interface {
	Create(ctx context.Context, a Account) (*Account, error)
	Update(ctx context.Context, a Account) (*Account, error)
	GetByID(ctx context.Context, id common.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// SetPaid mirrors teacher.Repository.SetPaid; only the payment
	// confirmation path may call it.
	SetPaid(ctx context.Context, id common.UUID, paid bool, paymentRef string) error
}
