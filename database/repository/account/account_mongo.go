package accountRepo

import (
	"context"
	"fmt"
	"time"

	"skillswap/database"
	"skillswap/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAccountRepo implements AccountRepository backed by MongoDB.
type MongoAccountRepo struct {
	accountColl *mongo.Collection
	ledgerColl  *mongo.Collection
}

// NewMongoAccountRepo returns a repository over the accounts and ledger
// collections.
func NewMongoAccountRepo() *MongoAccountRepo {
	return &MongoAccountRepo{
		accountColl: database.Collection("accounts"),
		ledgerColl:  database.Collection("ledger_entries"),
	}
}

func (r *MongoAccountRepo) Create(ctx context.Context, account *models.Account) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.accountColl.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAccountExists
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *MongoAccountRepo) GetByUserID(ctx context.Context, userID string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var acc models.Account
	err := r.accountColl.FindOne(ctx, bson.M{"user_id": userID}).Decode(&acc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account for user %s: %w", userID, err)
	}
	return &acc, nil
}
