package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.WalletRepository = (*WalletRepository)(nil)

// WalletRepository handles MongoDB operations for wallet analytics
type WalletRepository struct {
	collection *mongo.Collection
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(db *mongo.Database) *WalletRepository {
	return &WalletRepository{
		collection: db.Collection(WalletsCollection),
	}
}

// FindByUserID finds a wallet by its owner
func (r *WalletRepository) FindByUserID(ctx context.Context, userID string) (*models.WalletAnalytics, error) {
	var wallet models.WalletAnalytics
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&wallet)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// IncrementBalance atomically increments the balance of a wallet
func (r *WalletRepository) IncrementBalance(ctx context.Context, userID string, amount float64) error {
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$inc": bson.M{"balance": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
