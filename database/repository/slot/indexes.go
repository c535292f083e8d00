package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes backing the slot query patterns.
func (r *mongoSlotRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	availabilityIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "participantId", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("participant_start_idx"),
		},
	}
	if _, err := r.availability.Indexes().CreateMany(ctx, availabilityIndexes); err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}

	busyIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "participantIds", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("participants_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "source", Value: 1}},
			Options: options.Index().SetName("source_idx"),
		},
	}
	if _, err := r.busy.Indexes().CreateMany(ctx, busyIndexes); err != nil {
		return fmt.Errorf("failed to create busy indexes: %w", err)
	}
	return nil
}
