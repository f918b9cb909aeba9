package recordsRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// recordRetention bounds how long search records are kept.
const recordRetention = 30 * 24 * time.Hour

// EnsureIndexes creates the indexes on the search records collection.
func EnsureIndexes(repo SearchRecordRepository) error {
	r, ok := repo.(*mongoRecordRepo)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "mode", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("mode_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(recordRetention.Seconds())).SetName("created_ttl"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create search record indexes: %w", err)
	}
	return nil
}
