package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aroha-api/internal/model"
	"aroha-api/internal/repository"
)

// Seeds a handful of survey responses spanning the key schemes the
// store has accumulated over time: bare numeric keys, zero-padded
// keys, and Q-prefixed keys.
func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DATABASE")
	if dbName == "" {
		dbName = "aroha"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewResponseRepo(client.Database(dbName))

	now := time.Now()
	daysAgo := func(d int) *time.Time {
		t := now.AddDate(0, 0, -d)
		return &t
	}

	responses := []model.SurveyResponse{
		{
			// Bare numeric keys, the current scheme
			ID:          uuid.New().String(),
			SubmittedAt: daysAgo(0),
			Completed:   true,
			Answers: map[string]any{
				"1":         "25-34",
				"2":         "In a relationship",
				"3":         "Yes, in a relationship",
				"10_1":      4.0,
				"10_2":      3.0,
				"10_3":      5.0,
				"15":        "Very interested",
				"17":        "We argued for a week about whose turn it was to call the plumber. It felt so pointless afterwards.",
				"18":        "Splitting chores fairly when both of us work full-time",
				"19_1":      4.0,
				"19_2":      2.0,
				"23":        "Remembering birthdays and appointments for both families",
				"24":        "Somewhat comfortable",
				"27":        "Monthly subscription",
				"27_amount": "15",
				"28":        "Living with partner",
				"29":        []any{"Shared calendar", "Chore rotation"},
				"30":        "Yes",
			},
		},
		{
			// Zero-padded keys from the first mobile release
			ID:          uuid.New().String(),
			SubmittedAt: daysAgo(3),
			Completed:   true,
			Answers: map[string]any{
				"01":    "35-44",
				"02":    "Married",
				"03":    "Yes",
				"10_1":  2.0,
				"10_2":  4.0,
				"15":    "Somewhat interested",
				"18":    "Never having time for ourselves between work and kids",
				"19_1":  5.0,
				"23":    "Meal planning without the nightly debate",
				"24":    "Very comfortable",
				"27":    "One-time purchase",
				"28":    "Married with children",
				"29":    []any{"Meal planner"},
				"30":    "No",
			},
		},
		{
			// Q-prefixed keys from the original web form
			ID:          uuid.New().String(),
			SubmittedAt: daysAgo(10),
			Completed:   false,
			Answers: map[string]any{
				"Q1":  "18-24",
				"Q2":  "Single",
				"Q3":  "No",
				"Q18": "Coordinating plans with flatmates",
				"Q24": "Not comfortable",
				"Q28": "Flatting",
			},
		},
	}

	for i := range responses {
		if _, err := repo.Insert(ctx, &responses[i]); err != nil {
			log.Fatalf("Failed to insert response %d: %v", i, err)
		}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count responses: %v", err)
	}

	fmt.Printf("Seeded %d survey responses (%d total in %s.survey_responses)\n", len(responses), total, dbName)
}
