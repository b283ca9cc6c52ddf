package payment

import (
	"context"

	"github.com/JoeYatesss/educonnect-api/internal/common"
)

type Repository interface {
	// Create fails with a conflict error on a duplicate transaction id or
	// a second succeeded payment for the same payer.
	Create(ctx context.Context, p Payment) (*Payment, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) (*Payment, error)
	GetByID(ctx context.Context, id common.UUID) (*Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	FindSucceededByPayer(ctx context.Context, payer Payer) (*Payment, error)
	ListByPayer(ctx context.Context, payer Payer) ([]Payment, error)
}
