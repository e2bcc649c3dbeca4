package repository

import (
	"context"
	"errors"
	"time"

	"resourcegen/internal/core"
	client "resourcegen/internal/database/client"
	"resourcegen/internal/database/mongodb/model"
	"resourcegen/internal/database/usage"
	"resourcegen/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UsageRepository struct {
	collection *mongo.Collection
	trace      *telemetry.Trace
}

func NewUsageRepository(trace *telemetry.Trace, mongoClient *client.MongoClient) (*UsageRepository, error) {
	repository := &UsageRepository{
		collection: mongoClient.Database().Collection(string(core.MongoCollectionUsageRecords)),
		trace:      trace,
	}
	if err := repository.ensureIndexes(context.Background()); err != nil {
		return nil, err
	}
	return repository, nil
}

// 建索引：identity 唯一，避免重複建立；同名同規格的索引重建不會報錯
func (repository *UsageRepository) ensureIndexes(contextValue context.Context) error {
	_, returnedError := repository.collection.Indexes().CreateOne(contextValue, mongo.IndexModel{
		Keys:    bson.D{{Key: "identity", Value: 1}},
		Options: options.Index().SetName("uniq_identity").SetUnique(true),
	})
	return returnedError
}

func (repository *UsageRepository) Get(contextValue context.Context, identity string) (_ *usage.Record, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()
	repository.trace.ApplyTraceAttributes(span, core.TraceUsageWriteMeta{Driver: "mongo", Identity: identity, Op: "get"})

	var row model.UsageRecord
	err := repository.collection.FindOne(contextValue, bson.M{"identity": identity}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, usage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.ToRecord(), nil
}

func (repository *UsageRepository) Create(contextValue context.Context, identity string, count int, paid bool) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()
	meta := core.TraceUsageWriteMeta{Driver: "mongo", Identity: identity, Op: "create", Count: count}
	defer func() { repository.trace.ApplyTraceAttributes(span, meta) }()

	now := time.Now().UTC()
	_, err := repository.collection.InsertOne(contextValue, model.UsageRecord{
		Identity:  identity,
		Count:     count,
		Paid:      paid,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if mongo.IsDuplicateKeyError(err) {
		meta.Duplicate = true
		return usage.ErrAlreadyExists
	}
	if err == nil {
		meta.Affected = 1
	}
	return err
}

// IncrementCount filter 內帶上限條件，$inc 在單一文件上是原子的
func (repository *UsageRepository) IncrementCount(contextValue context.Context, identity string, limit int) (newCount int, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()
	meta := core.TraceUsageWriteMeta{Driver: "mongo", Identity: identity, Op: "increment", Limit: limit}
	defer func() {
		meta.Count = newCount
		repository.trace.ApplyTraceAttributes(span, meta)
	}()

	filter := bson.M{"identity": identity}
	if limit > 0 {
		filter["$or"] = bson.A{
			bson.M{"paid": true},
			bson.M{"count": bson.M{"$lt": limit}},
		}
	}
	update := withUpdatedAt(bson.M{"$inc": bson.M{"count": 1}})
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var row model.UsageRecord
	err := repository.collection.FindOneAndUpdate(contextValue, filter, update, opts).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		exists, countErr := repository.collection.CountDocuments(contextValue, bson.M{"identity": identity})
		if countErr != nil {
			return 0, countErr
		}
		if exists == 0 {
			return 0, usage.ErrNotFound
		}
		return 0, usage.ErrLimitReached
	}
	if err != nil {
		return 0, err
	}
	meta.Affected = 1
	return row.Count, nil
}

// SetPaid upsert；兩個併發 upsert 撞到唯一索引時重試一次即可命中既有文件
func (repository *UsageRepository) SetPaid(contextValue context.Context, identity string) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()
	repository.trace.ApplyTraceAttributes(span, core.TraceUsageWriteMeta{Driver: "mongo", Identity: identity, Op: "set_paid"})

	update := withUpdatedAt(bson.M{
		"$set":         bson.M{"paid": true},
		"$setOnInsert": bson.M{"count": 0, "createdAt": time.Now().UTC()},
	})
	opts := options.Update().SetUpsert(true)
	_, err := repository.collection.UpdateOne(contextValue, bson.M{"identity": identity}, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		_, err = repository.collection.UpdateOne(contextValue, bson.M{"identity": identity}, update, opts)
	}
	return err
}

func (repository *UsageRepository) Stats(contextValue context.Context) (usage.Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"identities":      bson.M{"$sum": 1},
			"paid_identities": bson.M{"$sum": bson.M{"$cond": bson.A{"$paid", 1, 0}}},
			"metered_units":   bson.M{"$sum": "$count"},
		}}},
	}
	cursor, err := repository.collection.Aggregate(contextValue, pipeline)
	if err != nil {
		return usage.Stats{}, err
	}
	defer cursor.Close(contextValue)

	var rows []struct {
		Identities     int64 `bson:"identities"`
		PaidIdentities int64 `bson:"paid_identities"`
		MeteredUnits   int64 `bson:"metered_units"`
	}
	if err := cursor.All(contextValue, &rows); err != nil {
		return usage.Stats{}, err
	}
	if len(rows) == 0 {
		return usage.Stats{}, nil
	}
	return usage.Stats{
		Identities:     rows[0].Identities,
		PaidIdentities: rows[0].PaidIdentities,
		MeteredUnits:   rows[0].MeteredUnits,
	}, nil
}

var _ usage.Store = (*UsageRepository)(nil)
