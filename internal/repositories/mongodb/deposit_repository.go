package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure DepositRepository implements the interface
var _ repositories.DepositRepository = (*DepositRepository)(nil)

// DepositRepository handles MongoDB operations for Deposit
type DepositRepository struct {
	collection *mongo.Collection
}

// NewDepositRepository creates a new DepositRepository
func NewDepositRepository(db *mongo.Database) *DepositRepository {
	return &DepositRepository{
		collection: db.Collection(DepositsCollection),
	}
}

func depositFilter(userID, checkoutRequestID string) bson.M {
	return bson.M{"userId": userID, "checkoutRequestID": checkoutRequestID}
}

// FindByCheckoutID finds the deposit record for a user and checkout request
func (r *DepositRepository) FindByCheckoutID(ctx context.Context, userID, checkoutRequestID string) (*models.Deposit, error) {
	var deposit models.Deposit
	err := r.collection.FindOne(ctx, depositFilter(userID, checkoutRequestID)).Decode(&deposit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &deposit, nil
}

// SaveCallback stores the normalized callback on the deposit record
func (r *DepositRepository) SaveCallback(ctx context.Context, userID string, payload *models.CallbackPayload, exists bool) error {
	now := time.Now()
	if !exists {
		deposit := &models.Deposit{
			UserID:            userID,
			CheckoutRequestID: payload.CheckoutRequestID,
			Callback:          payload,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		_, err := r.collection.InsertOne(ctx, deposit)
		if err == nil {
			return nil
		}
		// Lost a race with a concurrent delivery; fall through to merge
		if !mongo.IsDuplicateKeyError(err) {
			return err
		}
	}

	update := bson.M{"$set": bson.M{"callback": payload, "updatedAt": now}}
	_, err := r.collection.UpdateOne(ctx, depositFilter(userID, payload.CheckoutRequestID), update)
	return err
}

// Confirm sets the confirmation fields, creating the record if needed
func (r *DepositRepository) Confirm(ctx context.Context, userID, checkoutRequestID, claimedAmount string) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"type":      models.TransactionTypeDeposit,
			"amount":    claimedAmount,
			"confirmed": true,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	_, err := r.collection.UpdateOne(ctx, depositFilter(userID, checkoutRequestID), update, options.Update().SetUpsert(true))
	return err
}
