package mongodb

import (
	"context"
	"testing"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/repositories"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestDepositRepository_SaveCallback(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	payload := &models.CallbackPayload{CheckoutRequestID: "ws_CO_1"}
	duplicate := mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}
	updated := mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1})

	mt.Run("inserts a new record", func(mt *mtest.T) {
		repo := &DepositRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, repo.SaveCallback(context.Background(), "u1", payload, false))
	})

	mt.Run("merges when a concurrent insert won", func(mt *mtest.T) {
		repo := &DepositRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(duplicate), updated)

		assert.NoError(mt, repo.SaveCallback(context.Background(), "u1", payload, false))
	})

	mt.Run("returns other insert errors", func(mt *mtest.T) {
		repo := &DepositRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 121, Message: "validation failed"}))

		err := repo.SaveCallback(context.Background(), "u1", payload, false)
		assert.Error(mt, err)
		assert.False(mt, mongo.IsDuplicateKeyError(err))
	})

	mt.Run("updates an existing record", func(mt *mtest.T) {
		repo := &DepositRepository{collection: mt.Coll}
		mt.AddMockResponses(updated)

		assert.NoError(mt, repo.SaveCallback(context.Background(), "u1", payload, true))
	})
}

func TestDepositRepository_FindByCheckoutIDNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("empty result", func(mt *mtest.T) {
		repo := &DepositRepository{collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByCheckoutID(context.Background(), "u1", "ws_CO_1")
		assert.ErrorIs(mt, err, repositories.ErrNotFound)
	})
}

func TestWalletRepository_IncrementBalanceMissingWallet(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("no matching wallet", func(mt *mtest.T) {
		repo := &WalletRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.IncrementBalance(context.Background(), "ghost", 10)
		assert.ErrorIs(mt, err, repositories.ErrNotFound)
	})
}
