package slotRepo

import (
	"context"

	"github.com/kien-ship-it/event-matcher-sub000/database"
	"github.com/kien-ship-it/event-matcher-sub000/models"
	"github.com/kien-ship-it/event-matcher-sub000/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// SlotRepository stores availability slots and busy blocks. Queries return
// records pre-filtered to participants and an approximate window; exact
// window semantics belong to the recurrence engine.
type SlotRepository interface {
	CreateAvailability(ctx context.Context, slot models.AvailabilitySlot) error
	UpdateAvailability(ctx context.Context, slot models.AvailabilitySlot) error
	DeleteAvailability(ctx context.Context, slotID string) error
	GetAvailabilityByID(ctx context.Context, slotID string) (*models.AvailabilitySlot, error)
	ListAvailabilityByParticipant(ctx context.Context, participantID string) ([]models.AvailabilitySlot, error)
	ListAvailabilityForParticipants(ctx context.Context, participantIDs []string) ([]models.AvailabilitySlot, error)

	CreateBusyBlocks(ctx context.Context, blocks []models.BusyBlock) error
	ListBusyForParticipants(ctx context.Context, participantIDs []string) ([]models.BusyBlock, error)
	// ReplaceBusyBySource swaps out every busy block imported from one
	// external feed in a single pass.
	ReplaceBusyBySource(ctx context.Context, source string, blocks []models.BusyBlock) error
}

type mongoSlotRepo struct {
	availability *mongo.Collection
	busy         *mongo.Collection
}

// NewMongoSlotRepo constructs a MongoDB-backed SlotRepository and ensures
// the collection indexes exist.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	repo := &mongoSlotRepo{
		availability: db.Collection("availability_slots"),
		busy:         db.Collection("busy_blocks"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("slot repo: failed to ensure indexes: %v", err)
	}
	return repo
}
