package recordsRepo

import (
	"context"

	"slotfinder/database"
	"slotfinder/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type SearchRecordRepository interface {
	Create(ctx context.Context, record models.SearchRecord) (string, error)
	GetRecent(ctx context.Context, mode string, limit int64) ([]models.SearchRecord, error)
	// Record makes the repository usable as a search audit sink.
	Record(ctx context.Context, record models.SearchRecord) error
}

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a new SearchRecordRepository instance using MongoDB.
func NewMongoRecordRepo() SearchRecordRepository {
	return &mongoRecordRepo{
		coll: database.Database().Collection("search_records"),
	}
}
