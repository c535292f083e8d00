package slot

import (
	"context"

	slotRepo "github.com/kien-ship-it/event-matcher-sub000/database/repository/slot"
	"github.com/kien-ship-it/event-matcher-sub000/models"
	"github.com/kien-ship-it/event-matcher-sub000/services/schedule"
)

// SlotService is the slot-editing workflow: it owns the business rules for
// availability slots and rejects slots that collide with the owner's
// existing ones before anything is persisted.
type SlotService interface {
	Create(ctx context.Context, s models.AvailabilitySlot) (*models.AvailabilitySlot, error)
	Update(ctx context.Context, s models.AvailabilitySlot) (*models.AvailabilitySlot, error)
	Delete(ctx context.Context, participantID, slotID string) error
	ListByParticipant(ctx context.Context, participantID string) ([]models.AvailabilitySlot, error)
}

// DefaultSlotService is the production implementation.
type DefaultSlotService struct {
	Repo   slotRepo.SlotRepository
	Engine schedule.RecurrenceEngine
}
