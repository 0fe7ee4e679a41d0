package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"skillswap/models"

	"go.mongodb.org/mongo-driver/bson"
)

// FindActiveOverlapping returns active bookings that overlap [start, end) for
// either participant. Strict inequalities make touching endpoints
// non-conflicting: a 9:00-10:00 booking does not collide with 10:00-11:00.
func (r *MongoBookingRepo) FindActiveOverlapping(ctx context.Context, teacherID, learnerID string, start, end time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.bookingColl.Find(ctx, overlapFilter(teacherID, learnerID, start, end))
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping bookings: %w", err)
	}
	return bookings, nil
}

// overlapFilter matches active bookings involving either participant whose
// interval overlaps [start, end). Shared with the recheck inside
// CreateWithSlotClaim so both enforce the same rule.
func overlapFilter(teacherID, learnerID string, start, end time.Time) bson.M {
	return bson.M{
		"status": bson.M{"$in": bson.A{models.StatusScheduled, models.StatusInProgress}},
		"$or": bson.A{
			bson.M{"teacher_id": teacherID},
			bson.M{"learner_id": teacherID},
			bson.M{"teacher_id": learnerID},
			bson.M{"learner_id": learnerID},
		},
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}
}
