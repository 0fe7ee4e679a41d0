package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"skillswap/models"
	"skillswap/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChargesLearnerAndSchedules(t *testing.T) {
	f := newFixture()

	b, err := f.svc.Create(context.Background(), f.validCreate())
	require.NoError(t, err)

	assert.Equal(t, models.StatusScheduled, b.Status)
	assert.Equal(t, b.StartTime.Add(60*time.Minute), b.EndTime)
	assert.Equal(t, "win-1", b.WindowID)
	assert.Equal(t, "slot-1", b.SlotID)

	assert.Equal(t, int64(70), f.ledger.balance(learnerID))
	charges := f.ledger.entriesFor(models.ReasonSessionLearning)
	require.Len(t, charges, 1)
	assert.Equal(t, models.DirectionDebit, charges[0].Direction)
	assert.Equal(t, b.ID, charges[0].Request.BookingID)
	assert.Equal(t, "charge:"+b.ID, charges[0].Request.IdempotencyKey)

	// The teacher earns nothing at booking time.
	assert.Equal(t, int64(0), f.ledger.balance(teacherID))
}

func TestCreateSkillExchangeMovesNoTokens(t *testing.T) {
	f := newFixture()
	req := f.validCreate()
	req.IsSkillExchange = true

	b, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, b.IsSkillExchange)
	assert.Equal(t, int64(100), f.ledger.balance(learnerID))
	assert.Empty(t, f.ledger.Entries)
}

func TestCreateFreeSessionMovesNoTokens(t *testing.T) {
	f := newFixture()
	req := f.validCreate()
	req.PriceTokens = 0

	_, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, f.ledger.Entries)
}

func TestCreateRejectsInsufficientFunds(t *testing.T) {
	f := newFixture()
	f.ledger.setBalance(learnerID, 29)

	_, err := f.svc.Create(context.Background(), f.validCreate())
	require.Error(t, err)
	assert.Equal(t, utils.CodeInsufficientFunds, errorCode(t, err))

	// Rejected before anything persisted.
	assert.Empty(t, f.bookings.bookings)
	assert.Equal(t, int64(29), f.ledger.balance(learnerID))
}

func TestCreateRejectsOverlappingBooking(t *testing.T) {
	f := newFixture()
	first := f.mustCreate(t, f.validCreate())

	// Same interval again.
	_, err := f.svc.Create(context.Background(), f.validCreate())
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, errorCode(t, err))

	// Partial overlap collides too.
	req := f.validCreate()
	req.StartTime = first.StartTime.Add(30 * time.Minute)
	_, err = f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, errorCode(t, err))
}

func TestCreateAllowsTouchingIntervals(t *testing.T) {
	f := newFixture()
	first := f.mustCreate(t, f.validCreate())

	// A session starting exactly when the previous one ends does not collide.
	req := f.validCreate()
	req.StartTime = first.EndTime
	_, err := f.svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateRejectsLearnerSideOverlap(t *testing.T) {
	f := newFixture()

	// The learner already has an active session with a different teacher.
	req := f.validCreate()
	other := &models.Booking{
		ID:              "other-1",
		TeacherID:       "teacher-2",
		LearnerID:       learnerID,
		StartTime:       req.StartTime,
		EndTime:         req.StartTime.Add(60 * time.Minute),
		DurationMinutes: 60,
		Status:          models.StatusScheduled,
	}
	require.NoError(t, f.bookings.CreateWithSlotClaim(context.Background(), other))

	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, errorCode(t, err))
}

func TestSimultaneousCreatesForOneLearnerCollapseToOne(t *testing.T) {
	f := newFixture()
	f.users.add(&models.User{ID: "teacher-2", Name: "Grace", IsTeacher: true, Active: true})
	f.ledger.setBalance("teacher-2", 0)

	// The same learner books the same hour with two different teachers at
	// once; neither request sees the other before the storage claim.
	reqA := f.validCreate()
	reqB := f.validCreate()
	reqB.TeacherID = "teacher-2"

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, req := range []CreateRequest{reqA, reqB} {
		wg.Add(1)
		go func(i int, req CreateRequest) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(context.Background(), req)
		}(i, req)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
		} else {
			assert.Equal(t, utils.CodeConflict, errorCode(t, err))
		}
	}
	assert.Equal(t, 1, created)
	assert.Len(t, f.bookings.bookings, 1)

	// The loser's charge, if it got that far, was compensated.
	assert.Equal(t, int64(70), f.ledger.balance(learnerID))
}

func TestCreateIgnoresTerminalBookingsForConflicts(t *testing.T) {
	f := newFixture()
	first := f.mustCreate(t, f.validCreate())

	_, err := f.svc.Cancel(context.Background(), first.ID, learnerID, "changed plans")
	require.NoError(t, err)

	// Cancelled bookings free their interval.
	_, err = f.svc.Create(context.Background(), f.validCreate())
	assert.NoError(t, err)
}

func TestCreateRejectsNonTeacherTarget(t *testing.T) {
	f := newFixture()
	f.users.add(&models.User{ID: "plain-user", Active: true})

	req := f.validCreate()
	req.TeacherID = "plain-user"
	req.LearnerID = learnerID
	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, errorCode(t, err))
}

func TestCreateRejectsUnknownUsers(t *testing.T) {
	f := newFixture()
	req := f.validCreate()
	req.TeacherID = "ghost"
	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, errorCode(t, err))
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	cases := map[string]func(*CreateRequest){
		"self booking":    func(r *CreateRequest) { r.LearnerID = r.TeacherID },
		"past start":      func(r *CreateRequest) { r.StartTime = f.now.Add(-time.Hour) },
		"zero duration":   func(r *CreateRequest) { r.DurationMinutes = 0 },
		"negative price":  func(r *CreateRequest) { r.PriceTokens = -1 },
		"missing learner": func(r *CreateRequest) { r.LearnerID = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := f.validCreate()
			mutate(&req)
			_, err := f.svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, utils.CodeValidation, errorCode(t, err))
		})
	}
}

func TestCreateRejectsBookedSlot(t *testing.T) {
	f := newFixture()
	f.avail.slot.Booked = true

	_, err := f.svc.Create(context.Background(), f.validCreate())
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, errorCode(t, err))
	assert.Empty(t, f.ledger.Entries)
}

func TestCreateRejectsTimeOutsideAvailability(t *testing.T) {
	f := newFixture()
	f.avail.err = utils.NewServiceError(utils.CodeValidation, "requested time is outside the teacher's declared availability")

	_, err := f.svc.Create(context.Background(), f.validCreate())
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, errorCode(t, err))
}

func TestCreateCompensatesChargeWhenSlotRaceLost(t *testing.T) {
	f := newFixture()
	f.bookings.forceSlotLost = true

	_, err := f.svc.Create(context.Background(), f.validCreate())
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, errorCode(t, err))

	// The debit was compensated with a refund entry; net zero.
	assert.Equal(t, int64(100), f.ledger.balance(learnerID))
	require.Len(t, f.ledger.entriesFor(models.ReasonSessionLearning), 1)
	refunds := f.ledger.entriesFor(models.ReasonRefund)
	require.Len(t, refunds, 1)
	assert.Equal(t, models.DirectionCredit, refunds[0].Direction)
}
