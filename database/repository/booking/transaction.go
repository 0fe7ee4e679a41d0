package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"skillswap/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateWithSlotClaim inserts the booking and claims its availability slot in
// one transaction. Before the insert it touches a lock document for each
// participant and recounts overlapping active bookings: two concurrent
// creates for the same user write the same lock document, mongo aborts one
// with a transient error, WithTransaction retries it, and the retry sees the
// winner's booking in the recheck and returns ErrOverlap. The $elemMatch
// filter on the slot requires booked=false, so of two attempts on the same
// slot exactly one commits; the other gets ErrSlotTaken.
func (r *MongoBookingRepo) CreateWithSlotClaim(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		for _, userID := range []string{booking.TeacherID, booking.LearnerID} {
			if _, err := r.lockColl.UpdateOne(sc,
				bson.M{"id": userID},
				bson.M{"$set": bson.M{"touched_at": time.Now()}},
				options.Update().SetUpsert(true),
			); err != nil {
				return nil, fmt.Errorf("lock participant %s failed: %w", userID, err)
			}
		}

		n, err := r.bookingColl.CountDocuments(sc,
			overlapFilter(booking.TeacherID, booking.LearnerID, booking.StartTime, booking.EndTime))
		if err != nil {
			return nil, fmt.Errorf("overlap recheck failed: %w", err)
		}
		if n > 0 {
			return nil, ErrOverlap
		}

		if _, err := r.bookingColl.InsertOne(sc, booking); err != nil {
			return nil, fmt.Errorf("insert booking failed: %w", err)
		}

		if booking.SlotID == "" {
			return nil, nil
		}

		filter := bson.M{
			"id": booking.WindowID,
			"slots": bson.M{
				"$elemMatch": bson.M{
					"id":     booking.SlotID,
					"booked": false,
				},
			},
		}
		update := bson.M{
			"$set": bson.M{
				"slots.$.booked":     true,
				"slots.$.booking_id": booking.ID,
			},
		}

		res, err := r.availabilityColl.UpdateOne(sc, filter, update)
		if err != nil {
			return nil, fmt.Errorf("claim slot failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, ErrSlotTaken
		}
		return nil, nil
	}

	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		return err
	}
	return nil
}

// releaseSlot reverts a claimed slot inside the given session context.
func (r *MongoBookingRepo) releaseSlot(sc mongo.SessionContext, booking *models.Booking) error {
	if booking.SlotID == "" {
		return nil
	}
	filter := bson.M{
		"id": booking.WindowID,
		"slots": bson.M{
			"$elemMatch": bson.M{
				"id":         booking.SlotID,
				"booking_id": booking.ID,
			},
		},
	}
	update := bson.M{
		"$set":   bson.M{"slots.$.booked": false},
		"$unset": bson.M{"slots.$.booking_id": ""},
	}
	if _, err := r.availabilityColl.UpdateOne(sc, filter, update); err != nil {
		return fmt.Errorf("release slot failed: %w", err)
	}
	return nil
}

// markTerminalAndRelease flips a scheduled booking into a terminal status and
// releases its slot in one transaction.
func (r *MongoBookingRepo) markTerminalAndRelease(ctx context.Context, id string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		var before models.Booking
		err := r.bookingColl.FindOne(sc, bson.M{"id": id, "status": models.StatusScheduled}).Decode(&before)
		if err == mongo.ErrNoDocuments {
			return ErrNotApplicable
		}
		if err != nil {
			return fmt.Errorf("fetch booking failed: %w", err)
		}

		set["updated_at"] = time.Now()
		res, err := r.bookingColl.UpdateOne(sc,
			bson.M{"id": id, "status": models.StatusScheduled},
			bson.M{"$set": set},
		)
		if err != nil {
			return fmt.Errorf("update booking failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotApplicable
		}
		return r.releaseSlot(sc, &before)
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}

func (r *MongoBookingRepo) MarkCancelled(ctx context.Context, id string, c models.Cancellation) error {
	return r.markTerminalAndRelease(ctx, id, bson.M{
		"status":       models.StatusCancelled,
		"cancellation": c,
	})
}

func (r *MongoBookingRepo) MarkNoShow(ctx context.Context, id string) error {
	return r.markTerminalAndRelease(ctx, id, bson.M{
		"status": models.StatusNoShow,
	})
}
