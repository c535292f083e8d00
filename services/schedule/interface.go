package schedule

import (
	"time"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

// ExpandResult carries the concrete instances produced for one slot plus any
// data-quality warnings raised while interpreting its rule.
type ExpandResult struct {
	Instances []models.ExpandedInstance
	Warnings  []string
}

// RecurrenceEngine is the temporal recurrence and availability engine. All
// methods are pure functions of their arguments: no I/O, no shared state,
// safe to call from any number of goroutines.
type RecurrenceEngine interface {
	// Expand materializes a slot's occurrences inside [windowStart, windowEnd),
	// sorted by start instant. A malformed recurring rule yields zero
	// instances and a warning, never an error.
	Expand(slot models.TimeSlot, windowStart, windowEnd time.Time) (ExpandResult, error)

	// ExpandAll expands a batch of slots into one flat, ordered instance
	// list.
	ExpandAll(slots []models.TimeSlot, windowStart, windowEnd time.Time) (ExpandResult, error)

	// MayOverlap reports whether two slots can ever coincide in time, without
	// enumerating occurrences. Symmetric in its arguments.
	MayOverlap(a, b models.TimeSlot) bool

	// Aggregate buckets the participants' availability into 15-minute
	// intervals and expands busy blocks as a separate overlay.
	Aggregate(participants []models.ParticipantAvailability, busy []models.BusyBlock, windowStart, windowEnd time.Time) (models.AggregationResult, error)
}

// DefaultRecurrenceEngine is the production implementation.
type DefaultRecurrenceEngine struct{}

// NewEngine constructs the engine.
func NewEngine() *DefaultRecurrenceEngine {
	return &DefaultRecurrenceEngine{}
}
