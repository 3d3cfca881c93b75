package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/repositories"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.TransactionHistoryRepository = (*TransactionHistoryRepository)(nil)

// TransactionHistoryRepository handles MongoDB operations for the deposit log
type TransactionHistoryRepository struct {
	collection *mongo.Collection
}

// NewTransactionHistoryRepository creates a new TransactionHistoryRepository
func NewTransactionHistoryRepository(db *mongo.Database) *TransactionHistoryRepository {
	return &TransactionHistoryRepository{
		collection: db.Collection(TransactionsCollection),
	}
}

// Append inserts a new history entry
func (r *TransactionHistoryRepository) Append(ctx context.Context, entry *models.TransactionHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindByUserID lists a user's entries, newest first
func (r *TransactionHistoryRepository) FindByUserID(ctx context.Context, userID string) ([]*models.TransactionHistory, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.TransactionHistory
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
