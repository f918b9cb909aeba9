package recordsRepo

import (
	"context"
	"time"

	"slotfinder/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new search record and returns its ID.
func (r *mongoRecordRepo) Create(ctx context.Context, record models.SearchRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

func (r *mongoRecordRepo) Record(ctx context.Context, record models.SearchRecord) error {
	_, err := r.Create(ctx, record)
	return err
}

// GetRecent returns the newest records, optionally restricted to one mode.
func (r *mongoRecordRepo) GetRecent(ctx context.Context, mode string, limit int64) ([]models.SearchRecord, error) {
	filter := bson.M{}
	if mode != "" {
		filter["mode"] = mode
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.SearchRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
