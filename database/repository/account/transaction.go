package accountRepo

import (
	"context"
	"fmt"
	"time"

	"skillswap/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ApplyCredit runs the account mutation and the ledger append in one Mongo
// transaction. The conditional filter pins the account to the balance we read,
// so two concurrent mutations against the same account cannot interleave.
func (r *MongoAccountRepo) ApplyCredit(ctx context.Context, userID string, entry *models.LedgerEntry) error {
	return r.applyEntry(ctx, userID, entry, false)
}

// ApplyDebit is ApplyCredit's mirror; the filter additionally requires the
// balance to cover the amount, so a debit can never push the balance negative.
func (r *MongoAccountRepo) ApplyDebit(ctx context.Context, userID string, entry *models.LedgerEntry) error {
	return r.applyEntry(ctx, userID, entry, true)
}

func (r *MongoAccountRepo) applyEntry(ctx context.Context, userID string, entry *models.LedgerEntry, debit bool) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.accountColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{"user_id": userID, "active": true}
		update := bson.M{
			"$inc": bson.M{"balance": entry.Amount, "total_earned": entry.Amount},
			"$set": bson.M{"updated_at": time.Now()},
		}
		if debit {
			filter["balance"] = bson.M{"$gte": entry.Amount}
			update = bson.M{
				"$inc": bson.M{"balance": -entry.Amount, "total_spent": entry.Amount},
				"$set": bson.M{"updated_at": time.Now()},
			}
		}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
		var before models.Account
		if err := r.accountColl.FindOneAndUpdate(sc, filter, update, opts).Decode(&before); err != nil {
			if err != mongo.ErrNoDocuments {
				return fmt.Errorf("account update failed: %w", err)
			}
			// Distinguish "no account" from "not enough tokens".
			if !debit {
				return ErrAccountNotFound
			}
			count, cerr := r.accountColl.CountDocuments(sc, bson.M{"user_id": userID, "active": true})
			if cerr != nil {
				return fmt.Errorf("account lookup failed: %w", cerr)
			}
			if count == 0 {
				return ErrAccountNotFound
			}
			return ErrInsufficientBalance
		}

		entry.AccountID = before.ID
		entry.BalanceBefore = before.Balance
		if debit {
			entry.BalanceAfter = before.Balance - entry.Amount
		} else {
			entry.BalanceAfter = before.Balance + entry.Amount
		}

		if _, err := r.ledgerColl.InsertOne(sc, entry); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrDuplicateEntry
			}
			return fmt.Errorf("insert ledger entry failed: %w", err)
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
