package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingRepo "skillswap/database/repository/booking"
	userRepo "skillswap/database/repository/user"
	"skillswap/models"
	"skillswap/services/identity"
	"skillswap/services/ledger"
	"skillswap/services/video"
	"skillswap/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordedEntry is one ledger movement observed by the fake.
type recordedEntry struct {
	Direction string
	Request   ledger.EntryRequest
}

// fakeLedger implements ledger.Service over an in-memory balance map, with
// the same idempotency-key and overdraft behavior as the real service.
type fakeLedger struct {
	mu             sync.Mutex
	balances       map[string]int64
	idemKeys       map[string]bool
	Entries        []recordedEntry
	failNextCredit error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances: make(map[string]int64),
		idemKeys: make(map[string]bool),
	}
}

func (l *fakeLedger) setBalance(userID string, balance int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] = balance
}

func (l *fakeLedger) balance(userID string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID]
}

// failCreditOnce makes the next Credit call fail without side effects, as an
// unreachable backend would.
func (l *fakeLedger) failCreditOnce(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failNextCredit = err
}

func (l *fakeLedger) entriesFor(reason string) []recordedEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []recordedEntry
	for _, e := range l.Entries {
		if e.Request.Reason == reason {
			out = append(out, e)
		}
	}
	return out
}

func (l *fakeLedger) OpenAccount(ctx context.Context, userID string) (*models.Account, error) {
	l.setBalance(userID, 0)
	return &models.Account{UserID: userID, Active: true}, nil
}

func (l *fakeLedger) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	balance, ok := l.balances[userID]
	if !ok {
		return nil, utils.NewServiceError(utils.CodeNotFound, "account does not exist")
	}
	return &models.Account{UserID: userID, Balance: balance, Active: true}, nil
}

func (l *fakeLedger) Credit(ctx context.Context, req ledger.EntryRequest) (*models.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failNextCredit != nil {
		err := l.failNextCredit
		l.failNextCredit = nil
		return nil, err
	}
	if req.IdempotencyKey != "" {
		if l.idemKeys[req.IdempotencyKey] {
			return nil, ledger.ErrAlreadyApplied
		}
		l.idemKeys[req.IdempotencyKey] = true
	}
	before := l.balances[req.UserID]
	l.balances[req.UserID] = before + req.Amount
	l.Entries = append(l.Entries, recordedEntry{Direction: models.DirectionCredit, Request: req})
	return &models.LedgerEntry{
		ID: uuid.New().String(), Direction: models.DirectionCredit,
		Amount: req.Amount, Reason: req.Reason, BookingID: req.BookingID,
		BalanceBefore: before, BalanceAfter: before + req.Amount,
	}, nil
}

func (l *fakeLedger) Debit(ctx context.Context, req ledger.EntryRequest) (*models.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	before := l.balances[req.UserID]
	if before < req.Amount {
		return nil, utils.NewServiceError(utils.CodeInsufficientFunds, "balance does not cover the requested amount")
	}
	if req.IdempotencyKey != "" {
		if l.idemKeys[req.IdempotencyKey] {
			return nil, ledger.ErrAlreadyApplied
		}
		l.idemKeys[req.IdempotencyKey] = true
	}
	l.balances[req.UserID] = before - req.Amount
	l.Entries = append(l.Entries, recordedEntry{Direction: models.DirectionDebit, Request: req})
	return &models.LedgerEntry{
		ID: uuid.New().String(), Direction: models.DirectionDebit,
		Amount: req.Amount, Reason: req.Reason, BookingID: req.BookingID,
		BalanceBefore: before, BalanceAfter: before - req.Amount,
	}, nil
}

func (l *fakeLedger) History(ctx context.Context, userID string, filter models.LedgerFilter) ([]models.LedgerEntry, error) {
	return nil, nil
}

// fakeBookingRepo mirrors the guarded-write semantics of the Mongo
// implementation: every precondition miss is ErrNotApplicable.
type fakeBookingRepo struct {
	mu              sync.Mutex
	bookings        map[string]*models.Booking
	forceSlotLost   bool
	forceCancelLost bool
	releasedSlots   []string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) get(id string) (*models.Booking, bool) {
	b, ok := r.bookings[id]
	return b, ok
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.get(id)
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) ListForUser(ctx context.Context, userID string, limit int64) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.IsParticipant(userID) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindActiveOverlapping(ctx context.Context, teacherID, learnerID string, start, end time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if !b.IsActive() {
			continue
		}
		if !b.IsParticipant(teacherID) && !b.IsParticipant(learnerID) {
			continue
		}
		// Strict overlap; touching endpoints do not collide.
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CreateWithSlotClaim(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceSlotLost {
		return bookingRepo.ErrSlotTaken
	}
	// The overlap recheck and the insert run under one lock, like the real
	// transaction behind its participant locks.
	for _, b := range r.bookings {
		if !b.IsActive() {
			continue
		}
		if !b.IsParticipant(booking.TeacherID) && !b.IsParticipant(booking.LearnerID) {
			continue
		}
		if b.StartTime.Before(booking.EndTime) && b.EndTime.After(booking.StartTime) {
			return bookingRepo.ErrOverlap
		}
	}
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) MarkCancelled(ctx context.Context, id string, c models.Cancellation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceCancelLost {
		return bookingRepo.ErrNotApplicable
	}
	b, ok := r.get(id)
	if !ok || b.Status != models.StatusScheduled {
		return bookingRepo.ErrNotApplicable
	}
	b.Status = models.StatusCancelled
	b.Cancellation = &c
	r.releasedSlots = append(r.releasedSlots, b.SlotID)
	return nil
}

func (r *fakeBookingRepo) MarkJoined(ctx context.Context, id string, teacher bool, joinedAt time.Time, firstJoin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.get(id)
	if !ok {
		return bookingRepo.ErrNotApplicable
	}
	if firstJoin {
		if b.Status != models.StatusScheduled {
			return bookingRepo.ErrNotApplicable
		}
		b.Status = models.StatusInProgress
		b.ActualStartTime = &joinedAt
	} else if b.Status != models.StatusInProgress {
		return bookingRepo.ErrNotApplicable
	}
	if teacher {
		if b.TeacherJoinedAt != nil {
			return bookingRepo.ErrNotApplicable
		}
		b.TeacherJoinedAt = &joinedAt
	} else {
		if b.LearnerJoinedAt != nil {
			return bookingRepo.ErrNotApplicable
		}
		b.LearnerJoinedAt = &joinedAt
	}
	return nil
}

func (r *fakeBookingRepo) MarkCompleted(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.get(id)
	if !ok || b.Status != models.StatusInProgress {
		return bookingRepo.ErrNotApplicable
	}
	b.Status = models.StatusCompleted
	return nil
}

func (r *fakeBookingRepo) MarkNoShow(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.get(id)
	if !ok || b.Status != models.StatusScheduled {
		return bookingRepo.ErrNotApplicable
	}
	b.Status = models.StatusNoShow
	r.releasedSlots = append(r.releasedSlots, b.SlotID)
	return nil
}

func (r *fakeBookingRepo) SetTeacherRating(ctx context.Context, id string, rating models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.get(id)
	if !ok || b.Status != models.StatusCompleted || b.TeacherRating != nil {
		return bookingRepo.ErrNotApplicable
	}
	b.TeacherRating = &rating
	return nil
}

func (r *fakeBookingRepo) SetLearnerRating(ctx context.Context, id string, rating models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.get(id)
	if !ok || b.Status != models.StatusCompleted || b.LearnerRating != nil {
		return bookingRepo.ErrNotApplicable
	}
	b.LearnerRating = &rating
	return nil
}

func (r *fakeBookingRepo) SetSummary(ctx context.Context, id string, s models.SessionSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.get(id)
	if !ok || b.Status != models.StatusCompleted || b.Summary != nil {
		return bookingRepo.ErrNotApplicable
	}
	b.Summary = &s
	return nil
}

func (r *fakeBookingRepo) EnsureIndexes() error { return nil }

// fakeUserRepo keeps user profiles in memory with the same optimistic
// rating-count guard as the Mongo implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) add(u *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *u
	r.users[u.ID] = &copied
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) ApplyRatingStats(ctx context.Context, userID string, prevCount int, newAverage float64, incrementTaught bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return userRepo.ErrUserNotFound
	}
	if u.RatingCount != prevCount {
		return userRepo.ErrStaleStats
	}
	u.AverageRating = newAverage
	u.RatingCount++
	if incrementTaught {
		u.SessionsTaught++
	}
	return nil
}

func (r *fakeUserRepo) EnsureIndexes() error { return nil }

// fakeAvailability serves one preconfigured window/slot pair.
type fakeAvailability struct {
	window *models.AvailabilityWindow
	slot   *models.BookableSlot
	err    error
}

func (a *fakeAvailability) SetWindows(ctx context.Context, teacherID string, windows []models.AvailabilityWindow) error {
	return nil
}

func (a *fakeAvailability) WindowsForTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityWindow, error) {
	return nil, nil
}

func (a *fakeAvailability) ResolveForDate(ctx context.Context, teacherID string, at time.Time) (*models.AvailabilityWindow, error) {
	return a.window, a.err
}

func (a *fakeAvailability) FindSlot(ctx context.Context, teacherID string, start time.Time, durationMinutes int) (*models.AvailabilityWindow, *models.BookableSlot, error) {
	if a.err != nil {
		return nil, nil, a.err
	}
	return a.window, a.slot, nil
}

// fixture wires a DefaultBookingService to all fakes with a controllable
// clock. The default scene: one teacher, one learner with 100 tokens, one
// open slot two days out.
type fixture struct {
	svc      *DefaultBookingService
	bookings *fakeBookingRepo
	users    *fakeUserRepo
	ledger   *fakeLedger
	avail    *fakeAvailability
	now      time.Time
}

const (
	teacherID = "teacher-1"
	learnerID = "learner-1"
)

func newFixture() *fixture {
	users := newFakeUserRepo()
	users.add(&models.User{ID: teacherID, Name: "Ada", IsTeacher: true, Active: true})
	users.add(&models.User{ID: learnerID, Name: "Lin", Active: true})

	led := newFakeLedger()
	led.setBalance(teacherID, 0)
	led.setBalance(learnerID, 100)

	avail := &fakeAvailability{
		window: &models.AvailabilityWindow{ID: "win-1", TeacherID: teacherID, Active: true},
		slot:   &models.BookableSlot{ID: "slot-1", Start: 600, End: 660},
	}

	f := &fixture{
		bookings: newFakeBookingRepo(),
		users:    users,
		ledger:   led,
		avail:    avail,
		now:      time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
	}
	f.svc = &DefaultBookingService{
		Bookings:     f.bookings,
		Users:        users,
		Identity:     &identity.DefaultProvider{Users: users, Ledger: led},
		Ledger:       led,
		Availability: avail,
		Video:        &video.JWTCredentialProvider{Secret: []byte("test-secret")},
		Logger:       zap.NewNop(),
		Clock:        func() time.Time { return f.now },
	}
	return f
}

// validCreate is a request two days out for 60 minutes at 30 tokens.
func (f *fixture) validCreate() CreateRequest {
	return CreateRequest{
		TeacherID:       teacherID,
		LearnerID:       learnerID,
		StartTime:       f.now.Add(48 * time.Hour),
		DurationMinutes: 60,
		PriceTokens:     30,
	}
}

func (f *fixture) mustCreate(t *testing.T, req CreateRequest) *models.Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	return b
}

// completedBooking drives a booking through create, both joins and completion
// so rating tests start from a settled state machine.
func (f *fixture) completedBooking(t *testing.T) *models.Booking {
	t.Helper()
	b := f.mustCreate(t, f.validCreate())
	f.now = b.StartTime
	_, err := f.svc.Join(context.Background(), b.ID, teacherID)
	require.NoError(t, err)
	_, err = f.svc.Join(context.Background(), b.ID, learnerID)
	require.NoError(t, err)
	f.now = b.EndTime
	b, err = f.svc.Complete(context.Background(), b.ID)
	require.NoError(t, err)
	return b
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var svcErr *utils.ServiceError
	require.ErrorAs(t, err, &svcErr)
	return svcErr.Code
}
