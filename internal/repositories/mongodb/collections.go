package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	DepositsCollection      = "mpesa_deposits"
	WalletsCollection       = "wallet_analytics"
	AccountCollection       = "account"
	TransactionsCollection  = "mpesa_transactions"
	UsersCollection         = "users"
	NotificationsCollection = "notifications"
	MessagesCollection      = "messages"
)

// EnsureIndexes creates the indexes the repositories rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		DepositsCollection: {
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "checkoutRequestID", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		UsersCollection: {
			Keys: bson.D{{Key: "userId", Value: 1}},
		},
		TransactionsCollection: {
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	for name, model := range indexes {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}
	return nil
}
