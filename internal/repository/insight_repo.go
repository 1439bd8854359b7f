package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aroha-api/internal/model"
)

// latestInsightID keys the single current insight document. Every
// generation replaces it; history is not kept.
const latestInsightID = "latest"

// InsightRepo handles MongoDB operations for generated insight reports
type InsightRepo interface {
	SaveLatest(ctx context.Context, doc *model.InsightDocument) error
	GetLatest(ctx context.Context) (*model.InsightDocument, error)
}

type insightRepo struct {
	collection *mongo.Collection
}

// NewInsightRepo creates a new insight repository
func NewInsightRepo(db *mongo.Database) InsightRepo {
	return &insightRepo{
		collection: db.Collection("insight_reports"),
	}
}

func (r *insightRepo) SaveLatest(ctx context.Context, doc *model.InsightDocument) error {
	doc.ID = latestInsightID
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": latestInsightID}, doc, opts)
	return err
}

func (r *insightRepo) GetLatest(ctx context.Context) (*model.InsightDocument, error) {
	var doc model.InsightDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": latestInsightID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
