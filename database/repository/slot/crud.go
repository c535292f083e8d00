package slotRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

func (r *mongoSlotRepo) CreateAvailability(ctx context.Context, slot models.AvailabilitySlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	_, err := r.availability.InsertOne(ctx, slot)
	return err
}

func (r *mongoSlotRepo) UpdateAvailability(ctx context.Context, slot models.AvailabilitySlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slot.ID, "participantId": slot.ParticipantID}
	res, err := r.availability.ReplaceOne(ctx, filter, slot)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoSlotRepo) DeleteAvailability(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.availability.DeleteOne(ctx, bson.M{"id": slotID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoSlotRepo) GetAvailabilityByID(ctx context.Context, slotID string) (*models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.AvailabilitySlot
	if err := r.availability.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoSlotRepo) CreateBusyBlocks(ctx context.Context, blocks []models.BusyBlock) error {
	if len(blocks) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(blocks))
	for i, block := range blocks {
		if block.ID == "" {
			block.ID = uuid.New().String()
		}
		docs[i] = block
	}
	_, err := r.busy.InsertMany(ctx, docs)
	return err
}

func (r *mongoSlotRepo) ReplaceBusyBySource(ctx context.Context, source string, blocks []models.BusyBlock) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.busy.DeleteMany(ctx, bson.M{"source": source}); err != nil {
		return err
	}
	return r.CreateBusyBlocks(ctx, blocks)
}
