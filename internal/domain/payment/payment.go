package payment

import (
	"time"

	"github.com/JoeYatesss/educonnect-api/internal/common"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

type PayerKind string

const (
	PayerTeacher PayerKind = "teacher"
	PayerSchool  PayerKind = "school_account"
)

// Payer identifies which side of the marketplace is paying.
type Payer struct {
	Kind PayerKind   `json:"kind"`
	ID   common.UUID `json:"id"`
}

func TeacherPayer(id common.UUID) Payer {
	return Payer{Kind: PayerTeacher, ID: id}
}

func SchoolPayer(id common.UUID) Payer {
	return Payer{Kind: PayerSchool, ID: id}
}

// Payment records one provider transaction. TransactionID is the
// provider-side id and the deduplication key for webhook replays; at most
// one succeeded payment exists per payer.
type Payment struct {
	ID            common.UUID `json:"id"`
	Payer         Payer       `json:"payer"`
	TransactionID string      `json:"transaction_id"`
	Amount        int64       `json:"amount"`
	Currency      string      `json:"currency"`
	Status        Status      `json:"status"`
	Method        string      `json:"method,omitempty"`
	ReceiptURL    string      `json:"receipt_url,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
