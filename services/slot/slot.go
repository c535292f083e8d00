package slot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kien-ship-it/event-matcher-sub000/models"
	"github.com/kien-ship-it/event-matcher-sub000/utils"
)

const (
	slotAlignment   = 15 * time.Minute
	minSlotDuration = 30 * time.Minute
)

// Create validates the slot, checks it against the owner's existing slots,
// and persists it. A *ConflictError carries the first colliding slot.
func (s *DefaultSlotService) Create(ctx context.Context, sl models.AvailabilitySlot) (*models.AvailabilitySlot, error) {
	if err := validateSlot(sl); err != nil {
		return nil, err
	}
	if sl.ID == "" {
		sl.ID = uuid.New().String()
	}
	if err := s.checkConflicts(ctx, sl); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateAvailability(ctx, sl); err != nil {
		return nil, fmt.Errorf("failed to persist slot: %w", err)
	}
	utils.GetLogger().Info("availability slot created",
		zap.String("slotID", sl.ID), zap.String("participantID", sl.ParticipantID))
	return &sl, nil
}

// Update re-validates and re-checks conflicts, ignoring the slot's own
// previous version.
func (s *DefaultSlotService) Update(ctx context.Context, sl models.AvailabilitySlot) (*models.AvailabilitySlot, error) {
	if sl.ID == "" {
		return nil, &ValidationError{Message: "slot id is required"}
	}
	if err := validateSlot(sl); err != nil {
		return nil, err
	}
	if err := s.checkConflicts(ctx, sl); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateAvailability(ctx, sl); err != nil {
		return nil, fmt.Errorf("failed to update slot: %w", err)
	}
	return &sl, nil
}

func (s *DefaultSlotService) Delete(ctx context.Context, participantID, slotID string) error {
	existing, err := s.Repo.GetAvailabilityByID(ctx, slotID)
	if err != nil {
		return fmt.Errorf("slot not found: %w", err)
	}
	if existing.ParticipantID != participantID {
		return &ValidationError{Message: "slot belongs to another participant"}
	}
	return s.Repo.DeleteAvailability(ctx, slotID)
}

func (s *DefaultSlotService) ListByParticipant(ctx context.Context, participantID string) ([]models.AvailabilitySlot, error) {
	return s.Repo.ListAvailabilityByParticipant(ctx, participantID)
}

// checkConflicts runs the overlap detector against every other slot of the
// same participant.
func (s *DefaultSlotService) checkConflicts(ctx context.Context, sl models.AvailabilitySlot) error {
	existing, err := s.Repo.ListAvailabilityByParticipant(ctx, sl.ParticipantID)
	if err != nil {
		return fmt.Errorf("failed to load existing slots: %w", err)
	}
	for _, other := range existing {
		if other.ID == sl.ID {
			continue
		}
		if s.Engine.MayOverlap(sl.TimeSlot, other.TimeSlot) {
			return &ConflictError{Conflicting: other}
		}
	}
	return nil
}

// validateSlot enforces the availability business rules: end after start,
// 15-minute-aligned boundaries, and at least 30 minutes of duration.
// Recurrence interpretation is the engine's concern, not checked here.
func validateSlot(sl models.AvailabilitySlot) error {
	if sl.ParticipantID == "" {
		return &ValidationError{Message: "participant id is required"}
	}
	if !sl.End.After(sl.Start) {
		return &ValidationError{Message: "slot end must be after its start"}
	}
	if !aligned(sl.Start) || !aligned(sl.End) {
		return &ValidationError{Message: "slot boundaries must align to 15-minute marks"}
	}
	if sl.Duration() < minSlotDuration {
		return &ValidationError{Message: "slot must last at least 30 minutes"}
	}
	return nil
}

func aligned(t time.Time) bool {
	return t.Truncate(slotAlignment).Equal(t)
}
