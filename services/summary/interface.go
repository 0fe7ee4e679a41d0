package summary

import (
	"context"

	bookingRepo "skillswap/database/repository/booking"
	"skillswap/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Provider turns a session transcript into a structured report. The AI model
// behind it is an external dependency; the pipeline only cares about text in,
// text out.
type Provider interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Service is the asynchronous summary pipeline: accept a completed booking,
// queue the generation, store the report when the worker finishes.
type Service interface {
	// Request enqueues summary generation for a completed booking.
	Request(ctx context.Context, bookingID, transcript string) error
}

// Enqueuer is the slice of the asynq client that Request needs; satisfied by
// *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DefaultSummaryService implements Service and the worker-side task handler.
type DefaultSummaryService struct {
	Bookings   bookingRepo.BookingRepository
	Provider   Provider
	Queue      Enqueuer
	Dispatcher *notification.Dispatcher
	Logger     *zap.Logger
}
