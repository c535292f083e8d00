package schedule

import (
	"sort"
	"time"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

// bucketPartial is one participant's independent contribution: the set of
// bucket starts the participant is free in. Partials are merged with a
// commutative, associative union, so the aggregation has no shared mutable
// accumulator.
type bucketPartial struct {
	participantID string
	highlighted   bool
	starts        map[time.Time]struct{}
}

// bucketAccum is the merged state of one bucket.
type bucketAccum struct {
	participantIDs []string
	highlighted    bool
}

// Aggregate buckets the participants' availability into 15-minute intervals
// inside [windowStart, windowEnd) and expands busy blocks as a separate
// overlay. Buckets with no free participant are omitted.
func (e *DefaultRecurrenceEngine) Aggregate(
	participants []models.ParticipantAvailability,
	busy []models.BusyBlock,
	windowStart, windowEnd time.Time,
) (models.AggregationResult, error) {
	if windowStart.After(windowEnd) {
		return models.AggregationResult{}, NewInvalidWindowError("aggregation window start is after its end")
	}
	// No participants means no denominators: short-circuit to an empty view.
	if len(participants) == 0 {
		return models.AggregationResult{}, nil
	}

	var warnings []string
	partials := make([]bucketPartial, 0, len(participants))
	for _, p := range participants {
		partial := bucketPartial{
			participantID: p.ID,
			highlighted:   p.Highlighted,
			starts:        make(map[time.Time]struct{}),
		}
		for _, slot := range p.Availability {
			res, err := e.Expand(slot.TimeSlot, windowStart, windowEnd)
			if err != nil {
				return models.AggregationResult{}, err
			}
			warnings = append(warnings, res.Warnings...)
			for _, inst := range res.Instances {
				collectBucketStarts(partial.starts, inst, windowStart, windowEnd)
			}
		}
		partials = append(partials, partial)
	}

	merged := make(map[time.Time]*bucketAccum)
	for _, partial := range partials {
		for start := range partial.starts {
			acc, ok := merged[start]
			if !ok {
				acc = &bucketAccum{}
				merged[start] = acc
			}
			acc.participantIDs = append(acc.participantIDs, partial.participantID)
			acc.highlighted = acc.highlighted || partial.highlighted
		}
	}

	buckets := make([]models.AggregationBucket, 0, len(merged))
	for start, acc := range merged {
		sort.Strings(acc.participantIDs)
		buckets = append(buckets, models.AggregationBucket{
			Start:          start,
			ParticipantIDs: acc.participantIDs,
			Highlighted:    acc.highlighted,
			Level:          heatLevel(len(acc.participantIDs), len(participants)),
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Start.Before(buckets[j].Start)
	})

	busySlots := make([]models.TimeSlot, 0, len(busy))
	for _, block := range busy {
		busySlots = append(busySlots, block.TimeSlot)
	}
	expandedBusy, err := e.ExpandAll(busySlots, windowStart, windowEnd)
	if err != nil {
		return models.AggregationResult{}, err
	}
	warnings = append(warnings, expandedBusy.Warnings...)

	return models.AggregationResult{
		Buckets:  buckets,
		Busy:     expandedBusy.Instances,
		Warnings: warnings,
	}, nil
}

// collectBucketStarts records every 15-minute step of inst whose full
// [step, step+15min) interval lies inside the occurrence, clamped to the
// query window.
func collectBucketStarts(starts map[time.Time]struct{}, inst models.ExpandedInstance, windowStart, windowEnd time.Time) {
	for step := inst.Start; !step.Add(models.BucketWidth).After(inst.End); step = step.Add(models.BucketWidth) {
		if step.Before(windowStart) || !step.Before(windowEnd) {
			continue
		}
		starts[step.UTC()] = struct{}{}
	}
}

// heatTable distributes intermediate counts across levels 1-3 for small
// groups. Keys are total participants, then free count.
var heatTable = map[int]map[int]int{
	3: {2: 2},
	4: {2: 1, 3: 3},
	5: {2: 1, 3: 2, 4: 3},
}

// heatLevel quantizes a bucket's free count into 5 visual steps. A single
// free participant is always level 0 and a full group of two or more is
// always level 4, so the extremes stay distinguishable at any group size.
func heatLevel(count, total int) int {
	if count <= 1 {
		return 0
	}
	if count >= total {
		if total > 1 {
			return 4
		}
		return 0
	}
	if table, ok := heatTable[total]; ok {
		return table[count]
	}
	level := (count - 1) * 4 / (total - 1)
	if level < 1 {
		return 1
	}
	if level > 3 {
		return 3
	}
	return level
}
