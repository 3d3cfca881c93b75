package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure UserProfileRepository implements the interface
var _ repositories.UserProfileRepository = (*UserProfileRepository)(nil)

// UserProfileRepository handles MongoDB operations for UserProfile
type UserProfileRepository struct {
	collection *mongo.Collection
}

// NewUserProfileRepository creates a new UserProfileRepository
func NewUserProfileRepository(db *mongo.Database) *UserProfileRepository {
	return &UserProfileRepository{
		collection: db.Collection(UsersCollection),
	}
}

// FindByUserID finds all profiles whose userId field equals userID
func (r *UserProfileRepository) FindByUserID(ctx context.Context, userID string) ([]*models.UserProfile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []*models.UserProfile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert creates or replaces the profile keyed by userId
func (r *UserProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	profile.UpdatedAt = time.Now()
	filter := bson.M{"userId": profile.UserID}
	update := bson.M{"$set": profile}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
