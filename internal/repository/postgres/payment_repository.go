package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/payment"
)

const paymentColumns = `id, payer_kind, payer_id, transaction_id, amount, currency, status, method, receipt_url,
	created_at, updated_at`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p payment.Payment) (*payment.Payment, error) {
	p.ID = common.NewUUID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Payer.Kind, p.Payer.ID, p.TransactionID, p.Amount, p.Currency, p.Status, p.Method, p.ReceiptURL,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "payment already recorded", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create payment", err)
	}
	return &p, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id common.UUID, status payment.Status) (*payment.Payment, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE payments SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "payer already has a succeeded payment", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to update payment status", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "payment not found", nil)
	}
	return r.GetByID(ctx, id)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id common.UUID) (*payment.Payment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	return scanPayment(row)
}

func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1`, transactionID)
	return scanPayment(row)
}

func (r *PaymentRepository) FindSucceededByPayer(ctx context.Context, payer payment.Payer) (*payment.Payment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments
		WHERE payer_kind = $1 AND payer_id = $2 AND status = $3
		ORDER BY created_at DESC LIMIT 1`, payer.Kind, payer.ID, payment.StatusSucceeded)
	return scanPayment(row)
}

func (r *PaymentRepository) ListByPayer(ctx context.Context, payer payment.Payer) ([]payment.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments
		WHERE payer_kind = $1 AND payer_id = $2 ORDER BY created_at DESC`, payer.Kind, payer.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list payments", err)
	}
	defer rows.Close()
	var items []payment.Payment
	for rows.Next() {
		var p payment.Payment
		if err := rows.Scan(&p.ID, &p.Payer.Kind, &p.Payer.ID, &p.TransactionID, &p.Amount, &p.Currency, &p.Status,
			&p.Method, &p.ReceiptURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan payment", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func scanPayment(row *sql.Row) (*payment.Payment, error) {
	var p payment.Payment
	err := row.Scan(&p.ID, &p.Payer.Kind, &p.Payer.ID, &p.TransactionID, &p.Amount, &p.Currency, &p.Status,
		&p.Method, &p.ReceiptURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "payment not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load payment", err)
	}
	return &p, nil
}
