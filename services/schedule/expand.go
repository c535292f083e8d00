package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

// Expand materializes a slot's concrete occurrences inside
// [windowStart, windowEnd). Instances carry the id {slotId}-{RFC3339 start}
// so repeated calls yield identical, collision-free output.
func (e *DefaultRecurrenceEngine) Expand(slot models.TimeSlot, windowStart, windowEnd time.Time) (ExpandResult, error) {
	if windowStart.After(windowEnd) {
		return ExpandResult{}, NewInvalidWindowError(
			fmt.Sprintf("window start %s is after window end %s", windowStart.Format(time.RFC3339), windowEnd.Format(time.RFC3339)))
	}

	if !slot.Rule.IsRecurring() {
		if inWindow(slot.Start, windowStart, windowEnd) {
			return ExpandResult{Instances: []models.ExpandedInstance{newInstance(slot.ID, slot.Start, slot.End)}}, nil
		}
		return ExpandResult{}, nil
	}

	if problem := ruleProblem(slot.Rule); problem != "" {
		return ExpandResult{
			Warnings: []string{fmt.Sprintf("slot %s: %s", slot.ID, problem)},
		}, nil
	}

	startDate := slot.StartDate()
	first := models.DateOf(windowStart)
	if startDate.After(first) {
		first = startDate
	}
	last := models.DateOf(windowEnd)

	// Time-of-day offset from midnight, stamped onto every matching date.
	offset := slot.Start.UTC().Sub(startDate.Time)
	duration := slot.Duration()

	var instances []models.ExpandedInstance
	for d := first; !d.After(last); d = d.AddDays(1) {
		// End date is exclusive: the end date itself never generates.
		if slot.Rule.EndDate != nil && !d.Before(*slot.Rule.EndDate) {
			break
		}
		if !dayMatches(slot.Rule, startDate, d) {
			continue
		}
		if slot.Rule.HasException(d) {
			continue
		}
		start := d.Time.Add(offset)
		if !inWindow(start, windowStart, windowEnd) {
			continue
		}
		instances = append(instances, newInstance(slot.ID, start, start.Add(duration)))
	}

	sort.Slice(instances, func(i, j int) bool {
		return instances[i].Start.Before(instances[j].Start)
	})
	return ExpandResult{Instances: dedupeInstances(instances)}, nil
}

// ExpandAll expands a batch of slots into one flat, ordered instance list.
func (e *DefaultRecurrenceEngine) ExpandAll(slots []models.TimeSlot, windowStart, windowEnd time.Time) (ExpandResult, error) {
	var merged ExpandResult
	for _, slot := range slots {
		res, err := e.Expand(slot, windowStart, windowEnd)
		if err != nil {
			return ExpandResult{}, err
		}
		merged.Instances = append(merged.Instances, res.Instances...)
		merged.Warnings = append(merged.Warnings, res.Warnings...)
	}
	sort.Slice(merged.Instances, func(i, j int) bool {
		a, b := merged.Instances[i], merged.Instances[j]
		if a.Start.Equal(b.Start) {
			return a.ID < b.ID
		}
		return a.Start.Before(b.Start)
	})
	merged.Instances = dedupeInstances(merged.Instances)
	return merged, nil
}

func newInstance(originID string, start, end time.Time) models.ExpandedInstance {
	return models.ExpandedInstance{
		ID:       fmt.Sprintf("%s-%s", originID, start.UTC().Format(time.RFC3339)),
		OriginID: originID,
		Start:    start,
		End:      end,
	}
}

// inWindow tests membership in the half-open interval [start, end).
func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// dedupeInstances drops adjacent duplicates from a sorted instance list.
func dedupeInstances(instances []models.ExpandedInstance) []models.ExpandedInstance {
	if len(instances) < 2 {
		return instances
	}
	out := instances[:1]
	for _, inst := range instances[1:] {
		if inst.ID != out[len(out)-1].ID {
			out = append(out, inst)
		}
	}
	return out
}
