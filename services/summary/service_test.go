package summary

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	bookingRepo "skillswap/database/repository/booking"
	"skillswap/models"
	"skillswap/services/tasks"
	"skillswap/utils"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBookingRepo struct {
	bookings map[string]*models.Booking
}

func newStubBookingRepo(bookings ...*models.Booking) *stubBookingRepo {
	r := &stubBookingRepo{bookings: make(map[string]*models.Booking)}
	for _, b := range bookings {
		copied := *b
		r.bookings[b.ID] = &copied
	}
	return r
}

func (r *stubBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *stubBookingRepo) SetSummary(ctx context.Context, id string, s models.SessionSummary) error {
	b, ok := r.bookings[id]
	if !ok || b.Status != models.StatusCompleted || b.Summary != nil {
		return bookingRepo.ErrNotApplicable
	}
	b.Summary = &s
	return nil
}

func (r *stubBookingRepo) ListForUser(ctx context.Context, userID string, limit int64) ([]models.Booking, error) {
	return nil, nil
}

func (r *stubBookingRepo) FindActiveOverlapping(ctx context.Context, teacherID, learnerID string, start, end time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (r *stubBookingRepo) CreateWithSlotClaim(ctx context.Context, booking *models.Booking) error {
	return nil
}

func (r *stubBookingRepo) MarkCancelled(ctx context.Context, id string, c models.Cancellation) error {
	return nil
}

func (r *stubBookingRepo) MarkJoined(ctx context.Context, id string, teacher bool, joinedAt time.Time, firstJoin bool) error {
	return nil
}

func (r *stubBookingRepo) MarkCompleted(ctx context.Context, id string) error { return nil }
func (r *stubBookingRepo) MarkNoShow(ctx context.Context, id string) error    { return nil }
func (r *stubBookingRepo) SetTeacherRating(ctx context.Context, id string, rating models.Rating) error {
	return nil
}
func (r *stubBookingRepo) SetLearnerRating(ctx context.Context, id string, rating models.Rating) error {
	return nil
}
func (r *stubBookingRepo) EnsureIndexes() error { return nil }

type stubEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (q *stubEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type stubProvider struct {
	text  string
	err   error
	calls int
}

func (p *stubProvider) Summarize(ctx context.Context, transcript string) (string, error) {
	p.calls++
	return p.text, p.err
}

func completedBooking(id string) *models.Booking {
	return &models.Booking{
		ID:        id,
		TeacherID: "teacher-1",
		LearnerID: "learner-1",
		Status:    models.StatusCompleted,
	}
}

func summaryTask(t *testing.T, bookingID, transcript string) *asynq.Task {
	t.Helper()
	task, _, err := tasks.NewSummaryTask(models.SummaryPayload{BookingID: bookingID, Transcript: transcript})
	require.NoError(t, err)
	return task
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var svcErr *utils.ServiceError
	require.ErrorAs(t, err, &svcErr)
	return svcErr.Code
}

func TestRequestEnqueuesGenerationTask(t *testing.T) {
	queue := &stubEnqueuer{}
	svc := &DefaultSummaryService{
		Bookings: newStubBookingRepo(completedBooking("b-1")),
		Queue:    queue,
		Logger:   zap.NewNop(),
	}

	require.NoError(t, svc.Request(context.Background(), "b-1", "teacher: let's start..."))

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, tasks.TypeGenerateSummary, queue.tasks[0].Type())

	var p models.SummaryPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &p))
	assert.Equal(t, "b-1", p.BookingID)
	assert.Equal(t, "teacher: let's start...", p.Transcript)
}

func TestRequestSurfacesEnqueueFailure(t *testing.T) {
	queue := &stubEnqueuer{err: errors.New("redis down")}
	svc := &DefaultSummaryService{
		Bookings: newStubBookingRepo(completedBooking("b-1")),
		Queue:    queue,
		Logger:   zap.NewNop(),
	}

	err := svc.Request(context.Background(), "b-1", "transcript")
	require.Error(t, err)
	assert.Empty(t, queue.tasks)
}

func TestRequestRejectsUnknownBooking(t *testing.T) {
	svc := &DefaultSummaryService{Bookings: newStubBookingRepo(), Logger: zap.NewNop()}

	err := svc.Request(context.Background(), "missing", "transcript")
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, errorCode(t, err))
}

func TestRequestOnlyForCompletedSessions(t *testing.T) {
	b := completedBooking("b-1")
	b.Status = models.StatusScheduled
	svc := &DefaultSummaryService{Bookings: newStubBookingRepo(b), Logger: zap.NewNop()}

	err := svc.Request(context.Background(), "b-1", "transcript")
	require.Error(t, err)
	assert.Equal(t, utils.CodeInvalidTransition, errorCode(t, err))
}

func TestRequestRejectsSecondSummary(t *testing.T) {
	b := completedBooking("b-1")
	b.Summary = &models.SessionSummary{Text: "already there"}
	svc := &DefaultSummaryService{Bookings: newStubBookingRepo(b), Logger: zap.NewNop()}

	err := svc.Request(context.Background(), "b-1", "transcript")
	require.Error(t, err)
	assert.Equal(t, utils.CodeInvalidTransition, errorCode(t, err))
}

func TestHandleGenerateTaskStoresReport(t *testing.T) {
	repo := newStubBookingRepo(completedBooking("b-1"))
	provider := &stubProvider{text: "covered chord transitions; practice barre chords next"}
	svc := &DefaultSummaryService{Bookings: repo, Provider: provider, Logger: zap.NewNop()}

	err := svc.HandleGenerateTask(context.Background(), summaryTask(t, "b-1", "teacher: let's start..."))
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	require.NotNil(t, stored.Summary)
	assert.Equal(t, provider.text, stored.Summary.Text)
	assert.False(t, stored.Summary.GeneratedAt.IsZero())
	assert.Equal(t, 1, provider.calls)
}

func TestHandleGenerateTaskIsIdempotent(t *testing.T) {
	repo := newStubBookingRepo(completedBooking("b-1"))
	provider := &stubProvider{text: "first report"}
	svc := &DefaultSummaryService{Bookings: repo, Provider: provider, Logger: zap.NewNop()}

	task := summaryTask(t, "b-1", "transcript")
	require.NoError(t, svc.HandleGenerateTask(context.Background(), task))

	// A redelivered task is a no-op: no second model call, first report kept.
	provider.text = "second report"
	require.NoError(t, svc.HandleGenerateTask(context.Background(), task))

	stored, err := repo.GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, "first report", stored.Summary.Text)
	assert.Equal(t, 1, provider.calls)
}

func TestHandleGenerateTaskRetriesOnProviderFailure(t *testing.T) {
	repo := newStubBookingRepo(completedBooking("b-1"))
	provider := &stubProvider{err: errors.New("model unavailable")}
	svc := &DefaultSummaryService{Bookings: repo, Provider: provider, Logger: zap.NewNop()}

	err := svc.HandleGenerateTask(context.Background(), summaryTask(t, "b-1", "transcript"))
	require.Error(t, err)

	stored, err := repo.GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Nil(t, stored.Summary)
}

func TestHandleGenerateTaskRejectsMalformedPayload(t *testing.T) {
	svc := &DefaultSummaryService{Bookings: newStubBookingRepo(), Logger: zap.NewNop()}

	task := asynq.NewTask(tasks.TypeGenerateSummary, []byte("{not json"))
	err := svc.HandleGenerateTask(context.Background(), task)
	var jsonErr *json.SyntaxError
	assert.ErrorAs(t, err, &jsonErr)
}
