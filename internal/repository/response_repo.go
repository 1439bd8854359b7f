package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"aroha-api/internal/model"
)

// ResponseRepo handles MongoDB operations for survey responses. The
// pipeline is read-only over this collection; Insert exists for the
// seed tool.
type ResponseRepo interface {
	ListAll(ctx context.Context) ([]*model.SurveyResponse, error)
	GetByID(ctx context.Context, id string) (*model.SurveyResponse, error)
	Insert(ctx context.Context, response *model.SurveyResponse) (string, error)
	Count(ctx context.Context) (int64, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("survey_responses"),
	}
}

// responseDoc is the loose wire shape. Historical submissions stored
// _id and submittedAt in several forms, so both are decoded as `any`
// and coerced field-by-field; a record that fails coercion degrades in
// place instead of aborting the whole listing.
type responseDoc struct {
	ID          any            `bson:"_id"`
	SubmittedAt any            `bson:"submittedAt"`
	Completed   bool           `bson:"completed"`
	Answers     map[string]any `bson:"answers"`
}

func (r *responseRepo) ListAll(ctx context.Context) ([]*model.SurveyResponse, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer cursor.Close(ctx)

	var responses []*model.SurveyResponse
	for cursor.Next(ctx) {
		var doc responseDoc
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("skipping undecodable response record: %v", err)
			continue
		}
		responses = append(responses, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return responses, nil
}

func (r *responseRepo) GetByID(ctx context.Context, id string) (*model.SurveyResponse, error) {
	filter := bson.M{"_id": id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"_id": oid}
	}

	var doc responseDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get response: %w", err)
	}
	return doc.toModel(), nil
}

func (r *responseRepo) Insert(ctx context.Context, response *model.SurveyResponse) (string, error) {
	doc := bson.M{
		"completed": response.Completed,
		"answers":   response.Answers,
	}
	if response.ID != "" {
		doc["_id"] = response.ID
	}
	if response.SubmittedAt != nil {
		doc["submittedAt"] = *response.SubmittedAt
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert response: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	if s, ok := result.InsertedID.(string); ok {
		return s, nil
	}
	return response.ID, nil
}

func (r *responseRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count responses: %w", err)
	}
	return n, nil
}

func (d *responseDoc) toModel() *model.SurveyResponse {
	resp := &model.SurveyResponse{
		Completed: d.Completed,
		Answers:   d.Answers,
	}

	switch id := d.ID.(type) {
	case primitive.ObjectID:
		resp.ID = id.Hex()
	case string:
		resp.ID = id
	default:
		resp.ID = fmt.Sprintf("%v", id)
	}

	// Malformed or absent timestamps degrade to "unknown date".
	switch ts := d.SubmittedAt.(type) {
	case primitive.DateTime:
		t := ts.Time()
		resp.SubmittedAt = &t
	case time.Time:
		t := ts
		resp.SubmittedAt = &t
	case string:
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			resp.SubmittedAt = &t
		}
	}

	return resp
}
