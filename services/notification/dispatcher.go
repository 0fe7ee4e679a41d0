package notification

import (
	"context"
	"time"

	"skillswap/models"

	"go.uber.org/zap"
)

// Dispatcher delivers a batch of post-commit events best-effort. State
// mutations finish first; effects are emitted afterwards and a failed push
// only produces a log line.
type Dispatcher struct {
	Notifier Notifier
	Logger   *zap.Logger
}

// Dispatch sends each event on a detached context so an in-flight request
// finishing early cannot cancel delivery.
func (d *Dispatcher) Dispatch(events []models.Event) {
	if d.Notifier == nil || len(events) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, ev := range events {
			if err := d.Notifier.Publish(ctx, ev); err != nil {
				d.Logger.Warn("notification delivery failed",
					zap.String("type", ev.Type),
					zap.String("userId", ev.UserID),
					zap.Error(err),
				)
			}
		}
	}()
}
