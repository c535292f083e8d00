package slot

import (
	"fmt"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

// ValidationError reports a slot violating the availability business rules.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalidSlot: %s", e.Message)
}

// ConflictError reports a new or edited slot colliding with an existing one.
// The conflicting slot is carried for user feedback.
type ConflictError struct {
	Conflicting models.AvailabilitySlot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slotConflict: overlaps existing slot %s", e.Conflicting.ID)
}
