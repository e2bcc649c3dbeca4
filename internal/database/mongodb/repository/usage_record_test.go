package repository

import (
	"context"
	"testing"

	client "resourcegen/internal/database/client"
	"resourcegen/internal/database/usage"
	"resourcegen/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

const (
	testDatabase  = "resourcegen"
	testNamespace = "resourcegen.usage_records"
)

// newMockRepository 第一個 mock 回應給建立索引用
func newMockRepository(mt *mtest.T) *UsageRepository {
	mt.AddMockResponses(mtest.CreateSuccessResponse())
	repository, err := NewUsageRepository(&telemetry.Trace{}, client.NewMongoClientFrom(zap.NewNop(), mt.Client, testDatabase))
	require.NoError(mt, err)
	mt.ClearEvents()
	return repository
}

func usageDoc(identity string, count int, paid bool) bson.D {
	return bson.D{
		{Key: "identity", Value: identity},
		{Key: "count", Value: count},
		{Key: "paid", Value: paid},
	}
}

func duplicateKeyResponse() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"})
}

func TestUsageRepository_Get(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repository := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, usageDoc("a@x.com", 2, false)))

		record, err := repository.Get(context.Background(), "a@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, usage.Record{Identity: "a@x.com", Count: 2, Paid: false}, *record)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repository := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		_, err := repository.Get(context.Background(), "missing")
		assert.ErrorIs(mt, err, usage.ErrNotFound)
	})
}

func TestUsageRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("created", func(mt *mtest.T) {
		repository := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, repository.Create(context.Background(), "a@x.com", 1, false))
	})

	mt.Run("duplicate identity", func(mt *mtest.T) {
		repository := newMockRepository(mt)
		mt.AddMockResponses(duplicateKeyResponse())
		assert.ErrorIs(mt, repository.Create(context.Background(), "a@x.com", 1, false), usage.ErrAlreadyExists)
	})
}

func TestUsageRepository_IncrementCount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("gated filter and new count", func(mt *mtest.T) {
		repository := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: usageDoc("a@x.com", 3, false)}))

		count, err := repository.IncrementCount(context.Background(), "a@x.com", 3)
		require.NoError(mt, err)
		assert.Equal(mt, 3, count)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "findAndModify", started.CommandName)
		gate, err := started.Command.LookupErr("query", "$or")
		require.NoError(mt, err)
		// paid 或 count < limit
		assert.Contains(mt, gate.String(), "paid")
		assert.Contains(mt, gate.String(), "$lt")
		inc, err := started.Command.LookupErr("update", "$inc", "count")
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), inc.AsInt64())
	})

	mt.Run("no limit drops the gate", func(mt *mtest.T) {
		repository := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: usageDoc("a@x.com", 9, false)}))

		count, err := repository.IncrementCount(context.Background(), "a@x.com", 0)
		require.NoError(mt, err)
		assert.Equal(mt, 9, count)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		_, err = started.Command.LookupErr("query", "$or")
		assert.Error(mt, err)
	})

	mt.Run("limit reached", func(mt *mtest.T) {
		repository := newMockRepository(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		_, err := repository.IncrementCount(context.Background(), "a@x.com", 3)
		assert.ErrorIs(mt, err, usage.ErrLimitReached)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repository := newMockRepository(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch),
		)

		_, err := repository.IncrementCount(context.Background(), "missing", 3)
		assert.ErrorIs(mt, err, usage.ErrNotFound)
	})
}

func TestUsageRepository_SetPaid(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert keeps count", func(mt *mtest.T) {
		repository := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		require.NoError(mt, repository.SetPaid(context.Background(), "a@x.com"))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
		update := started.Command.Lookup("updates").Array().Index(0).Value().Document()
		assert.True(mt, update.Lookup("upsert").Boolean())
		assert.True(mt, update.Lookup("u", "$set", "paid").Boolean())
		_, err := update.LookupErr("u", "$set", "count")
		assert.Error(mt, err)
		_, err = update.LookupErr("u", "$setOnInsert", "count")
		assert.NoError(mt, err)
	})

	mt.Run("retry after concurrent upsert", func(mt *mtest.T) {
		repository := newMockRepository(mt)
		mt.AddMockResponses(
			duplicateKeyResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		require.NoError(mt, repository.SetPaid(context.Background(), "a@x.com"))
		assert.NotNil(mt, mt.GetStartedEvent())
		assert.NotNil(mt, mt.GetStartedEvent())
	})
}

func TestUsageRepository_Stats(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("totals", func(mt *mtest.T) {
		repository := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: nil},
			{Key: "identities", Value: int64(2)},
			{Key: "paid_identities", Value: int64(1)},
			{Key: "metered_units", Value: int64(5)},
		}))

		stats, err := repository.Stats(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, usage.Stats{Identities: 2, PaidIdentities: 1, MeteredUnits: 5}, stats)
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		repository := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		stats, err := repository.Stats(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, usage.Stats{}, stats)
	})
}
