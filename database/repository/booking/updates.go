package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"skillswap/models"

	"go.mongodb.org/mongo-driver/bson"
)

// guardedUpdate applies set under filter and maps a miss to ErrNotApplicable.
func (r *MongoBookingRepo) guardedUpdate(ctx context.Context, filter, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("booking update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotApplicable
	}
	return nil
}

func (r *MongoBookingRepo) MarkJoined(ctx context.Context, id string, teacher bool, joinedAt time.Time, firstJoin bool) error {
	joinField := "learner_joined_at"
	if teacher {
		joinField = "teacher_joined_at"
	}

	filter := bson.M{
		"id":      id,
		"status":  bson.M{"$in": bson.A{models.StatusScheduled, models.StatusInProgress}},
		joinField: bson.M{"$exists": false},
	}
	set := bson.M{
		joinField:    joinedAt,
		"updated_at": time.Now(),
	}
	if firstJoin {
		filter["status"] = models.StatusScheduled
		set["status"] = models.StatusInProgress
		set["actual_start_time"] = joinedAt
	}
	return r.guardedUpdate(ctx, filter, bson.M{"$set": set})
}

func (r *MongoBookingRepo) MarkCompleted(ctx context.Context, id string) error {
	return r.guardedUpdate(ctx,
		bson.M{"id": id, "status": models.StatusInProgress},
		bson.M{"$set": bson.M{"status": models.StatusCompleted, "updated_at": time.Now()}},
	)
}

func (r *MongoBookingRepo) SetTeacherRating(ctx context.Context, id string, rating models.Rating) error {
	return r.guardedUpdate(ctx,
		bson.M{
			"id":             id,
			"status":         models.StatusCompleted,
			"teacher_rating": bson.M{"$exists": false},
		},
		bson.M{"$set": bson.M{"teacher_rating": rating, "updated_at": time.Now()}},
	)
}

func (r *MongoBookingRepo) SetLearnerRating(ctx context.Context, id string, rating models.Rating) error {
	return r.guardedUpdate(ctx,
		bson.M{
			"id":             id,
			"status":         models.StatusCompleted,
			"learner_rating": bson.M{"$exists": false},
		},
		bson.M{"$set": bson.M{"learner_rating": rating, "updated_at": time.Now()}},
	)
}

func (r *MongoBookingRepo) SetSummary(ctx context.Context, id string, s models.SessionSummary) error {
	return r.guardedUpdate(ctx,
		bson.M{
			"id":      id,
			"status":  models.StatusCompleted,
			"summary": bson.M{"$exists": false},
		},
		bson.M{"$set": bson.M{"summary": s, "updated_at": time.Now()}},
	)
}
