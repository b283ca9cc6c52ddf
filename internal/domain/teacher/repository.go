package teacher

import (
	"context"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/workflow"
)

type Repository interface {
	Create(ctx context.Context, t Teacher) (*Teacher, error)
	Update(ctx context.Context, t Teacher) (*Teacher, error)
	GetByID(ctx context.Context, id common.UUID) (*Teacher, error)
	GetByAccountID(ctx context.Context, accountID common.UUID) (*Teacher, error)
	ListActive(ctx context.Context) ([]Teacher, error)
	ListByIDs(ctx context.Context, ids []common.UUID) ([]Teacher, error)

	// UpdateStatusWithHistory applies the status change and appends the
	// history row in a single transaction.
	UpdateStatusWithHistory(ctx context.Context, id common.UUID, status workflow.Status, history StatusHistory) (*Teacher, error)
	ListHistory(ctx context.Context, teacherID common.UUID) ([]StatusHistory, error)

	// SetPaid records the paid flag together with the external payment
	// reference. Call it only from the payment confirmation path.
	SetPaid(ctx context.Context, id common.UUID, paid bool, paymentRef string) error
}
