package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.FinanceRepository = (*FinanceRepository)(nil)

// FinanceRepository handles the platform finance singleton
type FinanceRepository struct {
	collection *mongo.Collection
}

// NewFinanceRepository creates a new FinanceRepository
func NewFinanceRepository(db *mongo.Database) *FinanceRepository {
	return &FinanceRepository{
		collection: db.Collection(AccountCollection),
	}
}

// Get retrieves the finance document
func (r *FinanceRepository) Get(ctx context.Context) (*models.PlatformFinance, error) {
	var finance models.PlatformFinance
	err := r.collection.FindOne(ctx, bson.M{"_id": models.PlatformFinanceID}).Decode(&finance)
	if err == mongo.ErrNoDocuments {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &finance, nil
}

// RecordDeposit credits balance and depositAmount in one atomic update
func (r *FinanceRepository) RecordDeposit(ctx context.Context, amount float64) error {
	update := bson.M{
		"$inc": bson.M{
			"balance":       amount,
			"depositAmount": amount,
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": models.PlatformFinanceID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("platform finance document is missing: %w", repositories.ErrNotFound)
	}
	return nil
}
