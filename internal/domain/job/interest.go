package job

import (
	"context"
	"time"

	"github.com/JoeYatesss/educonnect-api/internal/common"
)

// Interest is a public, insert-only expression of interest in a posting,
// submitted without an account. Admins read them; nothing updates them.
type Interest struct {
	ID        common.UUID `json:"id"`
	JobID     common.UUID `json:"job_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Message   string      `json:"message,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type InterestRepository interface {
	Create(ctx context.Context, i Interest) (*Interest, error)
	ListByJob(ctx context.Context, jobID common.UUID) ([]Interest, error)
}
