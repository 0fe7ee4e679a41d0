package userRepo

import (
	"context"
	"fmt"
	"time"

	"skillswap/database"
	"skillswap/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepo implements UserRepository backed by MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo() *MongoUserRepo {
	return &MongoUserRepo{coll: database.Collection("users")}
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u models.User
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	return &u, nil
}

func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": user.ID}, user)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ApplyRatingStats updates the running-mean aggregates. The rating_count
// guard makes the read-modify-write optimistic: a concurrent rating bumps the
// count and this write misses.
func (r *MongoUserRepo) ApplyRatingStats(ctx context.Context, userID string, prevCount int, newAverage float64, incrementTaught bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	inc := bson.M{"rating_count": 1}
	if incrementTaught {
		inc["sessions_taught"] = 1
	}
	update := bson.M{
		"$set": bson.M{"average_rating": newAverage, "updated_at": time.Now()},
		"$inc": inc,
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": userID, "rating_count": prevCount}, update)
	if err != nil {
		return fmt.Errorf("failed to update rating stats for user %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		count, cerr := r.coll.CountDocuments(ctx, bson.M{"id": userID}, options.Count().SetLimit(1))
		if cerr != nil {
			return fmt.Errorf("user lookup failed: %w", cerr)
		}
		if count == 0 {
			return ErrUserNotFound
		}
		return ErrStaleStats
	}
	return nil
}
