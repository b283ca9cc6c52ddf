package event

import (
	"context"

	"github.com/JoeYatesss/educonnect-api/internal/common"
)

const (
	NameMatchCreated     = "match.created"
	NameStatusChanged    = "status.changed"
	NamePaymentSucceeded = "payment.succeeded"
)

// Event is a fire-and-forget notification emitted after a state change.
// The email/notification service consumes them outside this module;
// publish failures are logged and never fail the originating operation.
type Event struct {
	Name    string            `json:"name"`
	ActorID *common.UUID      `json:"actor_id,omitempty"`
	Payload map[string]string `json:"payload,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher discards events; used in tests and when no notification
// backend is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, e Event) error {
	return nil
}
