package slotRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

func (r *mongoSlotRepo) ListAvailabilityByParticipant(ctx context.Context, participantID string) ([]models.AvailabilitySlot, error) {
	return r.findAvailability(ctx, bson.M{"participantId": participantID})
}

func (r *mongoSlotRepo) ListAvailabilityForParticipants(ctx context.Context, participantIDs []string) ([]models.AvailabilitySlot, error) {
	return r.findAvailability(ctx, bson.M{"participantId": bson.M{"$in": participantIDs}})
}

func (r *mongoSlotRepo) findAvailability(ctx context.Context, filter bson.M) ([]models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.availability.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.AvailabilitySlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoSlotRepo) ListBusyForParticipants(ctx context.Context, participantIDs []string) ([]models.BusyBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"participantIds": bson.M{"$in": participantIDs}}
	cursor, err := r.busy.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var blocks []models.BusyBlock
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}
