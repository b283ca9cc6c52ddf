package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/event"
	"github.com/JoeYatesss/educonnect-api/internal/domain/payment"
	"github.com/JoeYatesss/educonnect-api/internal/domain/school"
	"github.com/JoeYatesss/educonnect-api/internal/domain/teacher"
	"github.com/JoeYatesss/educonnect-api/internal/idempotency"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

// supportedCurrencies mirrors the provider price configuration.
var supportedCurrencies = map[string]bool{
	"USD": true,
	"GBP": true,
	"EUR": true,
}

type PaymentService struct {
	payments payment.Repository
	teachers teacher.Repository
	accounts school.AccountRepository
	engine   *policy.Engine
	guard    *idempotency.Guard
	events   event.Publisher
	logger   *zap.Logger
}

func NewPaymentService(payments payment.Repository, teachers teacher.Repository, accounts school.AccountRepository, engine *policy.Engine, guard *idempotency.Guard, events event.Publisher, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = event.NopPublisher{}
	}
	return &PaymentService{
		payments: payments,
		teachers: teachers,
		accounts: accounts,
		engine:   engine,
		guard:    guard,
		events:   events,
		logger:   logger,
	}
}

// Initiate records a pending payment when a provider checkout is opened.
// A payer with a succeeded payment cannot start another one.
func (s *PaymentService) Initiate(ctx context.Context, actor policy.Actor, payer payment.Payer, transactionID string, amount int64, currency string) (*payment.Payment, error) {
	if err := s.engine.Decide(actor, s.paymentResource(payer), policy.ActionWrite); err != nil {
		return nil, err
	}
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, common.NewValidationError("transaction id is required", map[string]string{"transaction_id": "required"})
	}
	if amount <= 0 {
		return nil, common.NewValidationError("amount must be positive", map[string]string{"amount": "non_positive"})
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !supportedCurrencies[currency] {
		return nil, common.NewValidationError("unsupported currency", map[string]string{"currency": currency})
	}

	if _, err := s.payments.FindSucceededByPayer(ctx, payer); err == nil {
		return nil, common.NewError(common.CodeConflict, "payer has already completed payment", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	return s.payments.Create(ctx, payment.Payment{
		Payer:         payer,
		TransactionID: transactionID,
		Amount:        amount,
		Currency:      currency,
		Status:        payment.StatusPending,
	})
}

// ConfirmationEvent is the payload delivered by the payment provider's
// webhook, keyed by the provider-side transaction id.
type ConfirmationEvent struct {
	TransactionID string
	Payer         payment.Payer
	Amount        int64
	Currency      string
	Status        payment.Status
	Method        string
	ReceiptURL    string
}

// ConfirmationResult reports what a confirmation did. AlreadyApplied is
// the replay outcome: a no-op, not an error.
type ConfirmationResult struct {
	Payment        *payment.Payment
	AlreadyApplied bool
}

// HandleConfirmation applies a provider payment event idempotently.
// Replays of the same transaction id never create a second payment row or
// re-apply the paid flag. The redis guard absorbs hot replays; the unique
// index on transaction_id is the durable dedup.
func (s *PaymentService) HandleConfirmation(ctx context.Context, actor policy.Actor, ev ConfirmationEvent) (*ConfirmationResult, error) {
	if actor.Role != policy.RoleAdmin && actor.Role != policy.RoleService {
		return nil, common.NewError(common.CodeForbidden, "payment confirmation requires a trusted identity", nil)
	}
	ev.TransactionID = strings.TrimSpace(ev.TransactionID)
	if ev.TransactionID == "" {
		return nil, common.NewValidationError("transaction id is required", map[string]string{"transaction_id": "required"})
	}
	switch ev.Status {
	case payment.StatusSucceeded, payment.StatusFailed, payment.StatusRefunded:
	default:
		return nil, common.NewValidationError("unsupported confirmation status", map[string]string{"status": string(ev.Status)})
	}
	ev.Currency = strings.ToUpper(strings.TrimSpace(ev.Currency))
	if !supportedCurrencies[ev.Currency] {
		return nil, common.NewValidationError("unsupported currency", map[string]string{"currency": ev.Currency})
	}

	if !s.guard.FirstSeen(ctx, ev.TransactionID) {
		existing, err := s.payments.GetByTransactionID(ctx, ev.TransactionID)
		if err == nil && existing.Status == ev.Status {
			return &ConfirmationResult{Payment: existing, AlreadyApplied: true}, nil
		}
		// Guard hit but the row disagrees; fall through and reconcile
		// against the store.
	}

	existing, err := s.payments.GetByTransactionID(ctx, ev.TransactionID)
	switch {
	case err == nil:
		if existing.Status == ev.Status {
			return &ConfirmationResult{Payment: existing, AlreadyApplied: true}, nil
		}
		updated, err := s.payments.UpdateStatus(ctx, existing.ID, ev.Status)
		if err != nil {
			s.guard.Forget(ctx, ev.TransactionID)
			return nil, err
		}
		if err := s.applyPaidFlag(ctx, updated); err != nil {
			s.guard.Forget(ctx, ev.TransactionID)
			return nil, err
		}
		return &ConfirmationResult{Payment: updated}, nil
	case common.Is(err, common.CodeNotFound):
		created, err := s.payments.Create(ctx, payment.Payment{
			Payer:         ev.Payer,
			TransactionID: ev.TransactionID,
			Amount:        ev.Amount,
			Currency:      ev.Currency,
			Status:        ev.Status,
			Method:        ev.Method,
			ReceiptURL:    ev.ReceiptURL,
		})
		if err != nil {
			if common.Is(err, common.CodeConflict) {
				// Concurrent delivery of the same event; the first writer won.
				winner, getErr := s.payments.GetByTransactionID(ctx, ev.TransactionID)
				if getErr != nil {
					return nil, getErr
				}
				return &ConfirmationResult{Payment: winner, AlreadyApplied: true}, nil
			}
			s.guard.Forget(ctx, ev.TransactionID)
			return nil, err
		}
		if err := s.applyPaidFlag(ctx, created); err != nil {
			s.guard.Forget(ctx, ev.TransactionID)
			return nil, err
		}
		return &ConfirmationResult{Payment: created}, nil
	default:
		s.guard.Forget(ctx, ev.TransactionID)
		return nil, err
	}
}

func (s *PaymentService) Get(ctx context.Context, actor policy.Actor, id common.UUID) (*payment.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(actor, s.paymentResource(p.Payer), policy.ActionRead); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) ListByPayer(ctx context.Context, actor policy.Actor, payer payment.Payer) ([]payment.Payment, error) {
	if err := s.engine.Decide(actor, s.paymentResource(payer), policy.ActionRead); err != nil {
		return nil, err
	}
	return s.payments.ListByPayer(ctx, payer)
}

// applyPaidFlag is the single write path for has_paid, keeping the flag
// consistent with the succeeded-payment row it mirrors.
func (s *PaymentService) applyPaidFlag(ctx context.Context, p *payment.Payment) error {
	var paid bool
	switch p.Status {
	case payment.StatusSucceeded:
		paid = true
	case payment.StatusRefunded:
		paid = false
	default:
		return nil
	}

	var err error
	switch p.Payer.Kind {
	case payment.PayerTeacher:
		err = s.teachers.SetPaid(ctx, p.Payer.ID, paid, p.TransactionID)
	case payment.PayerSchool:
		err = s.accounts.SetPaid(ctx, p.Payer.ID, paid, p.TransactionID)
	default:
		return common.NewValidationError("unknown payer kind", map[string]string{"payer": string(p.Payer.Kind)})
	}
	if err != nil {
		return err
	}

	if paid {
		s.publishPaymentSucceeded(ctx, p)
	}
	return nil
}

func (s *PaymentService) paymentResource(payer payment.Payer) policy.Resource {
	resource := policy.Resource{Kind: policy.ResourcePayment}
	switch payer.Kind {
	case payment.PayerTeacher:
		resource.OwnerTeacherID = payer.ID
	case payment.PayerSchool:
		resource.OwnerAccountID = payer.ID
	}
	return resource
}

func (s *PaymentService) publishPaymentSucceeded(ctx context.Context, p *payment.Payment) {
	err := s.events.Publish(ctx, event.Event{
		Name: event.NamePaymentSucceeded,
		Payload: map[string]string{
			"payment_id":     p.ID.String(),
			"payer_kind":     string(p.Payer.Kind),
			"payer_id":       p.Payer.ID.String(),
			"transaction_id": p.TransactionID,
		},
	})
	if err != nil {
		s.logger.Warn("failed to publish payment.succeeded", zap.Error(err))
	}
}
