package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"skillswap/database"
	"skillswap/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAvailabilityRepo implements AvailabilityRepository backed by MongoDB.
type MongoAvailabilityRepo struct {
	coll *mongo.Collection
}

func NewMongoAvailabilityRepo() *MongoAvailabilityRepo {
	return &MongoAvailabilityRepo{coll: database.Collection("availability_windows")}
}

func (r *MongoAvailabilityRepo) GetByID(ctx context.Context, id string) (*models.AvailabilityWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var w models.AvailabilityWindow
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&w)
	if err == mongo.ErrNoDocuments {
		return nil, ErrWindowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch window %s: %w", id, err)
	}
	return &w, nil
}

func (r *MongoAvailabilityRepo) GetForTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"teacher_id": teacherID})
	if err != nil {
		return nil, fmt.Errorf("failed to query windows for teacher %s: %w", teacherID, err)
	}
	defer cursor.Close(ctx)

	var windows []models.AvailabilityWindow
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode windows: %w", err)
	}
	return windows, nil
}

// ReplaceForTeacher swaps the teacher's windows in one transaction so a
// concurrent reader never sees a half-written schedule.
func (r *MongoAvailabilityRepo) ReplaceForTeacher(ctx context.Context, teacherID string, windows []models.AvailabilityWindow) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.coll.DeleteMany(sc, bson.M{"teacher_id": teacherID}); err != nil {
			return fmt.Errorf("clear windows failed: %w", err)
		}
		if len(windows) == 0 {
			return nil
		}
		docs := make([]interface{}, 0, len(windows))
		for i := range windows {
			docs = append(docs, windows[i])
		}
		if _, err := r.coll.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("insert windows failed: %w", err)
		}
		return nil
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
