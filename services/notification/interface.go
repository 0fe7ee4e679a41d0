package notification

import (
	"context"

	"skillswap/models"
)

// Notifier fans an event out to the affected user. Implementations must be
// safe to call after a transaction has committed; a delivery failure is the
// notifier's problem, never the caller's.
type Notifier interface {
	Publish(ctx context.Context, event models.Event) error
}
