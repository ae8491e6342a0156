package mgo

import (
	"context"
	"errors"
	"fmt"

	"go.keploy.io/apicase/pkg/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const recordCollection = "records"

type RecordDB struct {
	c      *mongo.Collection
	logger *zap.Logger
}

func NewRecordDB(client *mongo.Client, database string, logger *zap.Logger) *RecordDB {
	return &RecordDB{
		c:      client.Database(database).Collection(recordCollection),
		logger: logger,
	}
}

func (r *RecordDB) InsertRecord(ctx context.Context, record *models.Record) error {
	if _, err := r.c.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert record %s: %w", record.ID, err)
	}
	r.logger.Debug("stored record", zap.String("record", record.ID))
	return nil
}

func (r *RecordDB) GetRecord(ctx context.Context, id string) (*models.Record, error) {
	var record models.Record
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", models.ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", id, err)
	}
	return &record, nil
}

// GetRecordIDs returns record ids, oldest first.
func (r *RecordDB) GetRecordIDs(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "started", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer func() {
		if err := cur.Close(ctx); err != nil {
			r.logger.Debug("failed to close record cursor", zap.Error(err))
		}
	}()

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode record ids: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}
