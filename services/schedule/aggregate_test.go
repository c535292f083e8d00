package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

func availability(participantID, slotID string, start, end time.Time) models.AvailabilitySlot {
	return models.AvailabilitySlot{
		TimeSlot:      oneTimeSlot(slotID, start, end),
		ParticipantID: participantID,
	}
}

func TestAggregate_SingleParticipant(t *testing.T) {
	engine := NewEngine()
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	participants := []models.ParticipantAvailability{
		{
			ID: "p1",
			Availability: []models.AvailabilitySlot{
				availability("p1", "s1", day.Add(9*time.Hour), day.Add(10*time.Hour)),
			},
		},
	}

	res, err := engine.Aggregate(participants, nil, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, res.Buckets, 4, "one hour covers four 15-minute buckets")

	for i, bucket := range res.Buckets {
		assert.Equal(t, day.Add(9*time.Hour+time.Duration(i)*models.BucketWidth), bucket.Start)
		assert.Equal(t, []string{"p1"}, bucket.ParticipantIDs)
		assert.Equal(t, 0, bucket.Level, "a lone participant is always level 0")
		assert.False(t, bucket.Highlighted)
	}
}

func TestAggregate_ZeroParticipants(t *testing.T) {
	engine := NewEngine()
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	res, err := engine.Aggregate(nil, nil, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, res.Buckets)
	assert.Empty(t, res.Busy)
}

func TestAggregate_InvalidWindow(t *testing.T) {
	engine := NewEngine()
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	_, err := engine.Aggregate(nil, nil, day.AddDate(0, 0, 1), day)
	require.Error(t, err)
}

func TestAggregate_LevelsAcrossGroupSizes(t *testing.T) {
	engine := NewEngine()
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	slotStart := day.Add(9 * time.Hour)
	slotEnd := day.Add(9*time.Hour + 15*time.Minute)

	tests := []struct {
		name      string
		total     int
		free      int
		wantLevel int
	}{
		{name: "everyone free in a pair", total: 2, free: 2, wantLevel: 4},
		{name: "one of two", total: 2, free: 1, wantLevel: 0},
		{name: "two of three", total: 3, free: 2, wantLevel: 2},
		{name: "three of three", total: 3, free: 3, wantLevel: 4},
		{name: "two of four", total: 4, free: 2, wantLevel: 1},
		{name: "three of four", total: 4, free: 3, wantLevel: 3},
		{name: "three of five", total: 5, free: 3, wantLevel: 2},
		{name: "four of ten", total: 10, free: 4, wantLevel: 1},
		{name: "nine of ten", total: 10, free: 9, wantLevel: 3},
		{name: "ten of ten", total: 10, free: 10, wantLevel: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var participants []models.ParticipantAvailability
			for i := 0; i < tt.total; i++ {
				p := models.ParticipantAvailability{ID: fmt.Sprintf("p%02d", i)}
				if i < tt.free {
					p.Availability = []models.AvailabilitySlot{
						availability(p.ID, fmt.Sprintf("s%02d", i), slotStart, slotEnd),
					}
				}
				participants = append(participants, p)
			}

			res, err := engine.Aggregate(participants, nil, day, day.AddDate(0, 0, 1))
			require.NoError(t, err)
			require.Len(t, res.Buckets, 1)
			assert.Equal(t, tt.wantLevel, res.Buckets[0].Level)
			assert.Len(t, res.Buckets[0].ParticipantIDs, tt.free)
		})
	}
}

func TestAggregate_HighlightedParticipant(t *testing.T) {
	engine := NewEngine()
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	participants := []models.ParticipantAvailability{
		{
			ID:          "p1",
			Highlighted: true,
			Availability: []models.AvailabilitySlot{
				availability("p1", "s1", day.Add(9*time.Hour), day.Add(9*time.Hour+30*time.Minute)),
			},
		},
		{
			ID: "p2",
			Availability: []models.AvailabilitySlot{
				availability("p2", "s2", day.Add(10*time.Hour), day.Add(10*time.Hour+30*time.Minute)),
			},
		},
	}

	res, err := engine.Aggregate(participants, nil, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, res.Buckets, 4)

	for _, bucket := range res.Buckets {
		if bucket.ParticipantIDs[0] == "p1" {
			assert.True(t, bucket.Highlighted)
		} else {
			assert.False(t, bucket.Highlighted)
		}
	}
}

func TestAggregate_RecurringAvailabilityAndBusyOverlay(t *testing.T) {
	engine := NewEngine()
	windowStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	monday := 1

	weekly := models.AvailabilitySlot{
		TimeSlot: weeklySlot("avail", monday,
			time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC)),
		ParticipantID: "p1",
	}
	busy := []models.BusyBlock{
		{
			TimeSlot: weeklySlot("standup", monday,
				time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
				time.Date(2025, 1, 6, 9, 15, 0, 0, time.UTC)),
			Title:          "standup",
			ParticipantIDs: []string{"p1"},
		},
	}

	res, err := engine.Aggregate(
		[]models.ParticipantAvailability{{ID: "p1", Availability: []models.AvailabilitySlot{weekly}}},
		busy, windowStart, windowEnd)
	require.NoError(t, err)

	// Two Mondays in window, two buckets each.
	require.Len(t, res.Buckets, 4)
	assert.Equal(t, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), res.Buckets[0].Start)
	assert.Equal(t, time.Date(2025, 1, 13, 9, 15, 0, 0, time.UTC), res.Buckets[3].Start)

	// Busy blocks are an overlay, not subtracted from availability.
	require.Len(t, res.Busy, 2)
	assert.Equal(t, "standup", res.Busy[0].OriginID)
	assert.True(t, res.Busy[0].Start.Before(res.Busy[1].Start))
}

func TestAggregate_MalformedRuleSurfacesWarning(t *testing.T) {
	engine := NewEngine()
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	broken := models.AvailabilitySlot{
		TimeSlot: models.TimeSlot{
			ID:    "broken",
			Start: day.Add(9 * time.Hour),
			End:   day.Add(10 * time.Hour),
			Rule:  models.RecurrenceRule{Kind: models.RecurrenceWeeklyPattern},
		},
		ParticipantID: "p1",
	}

	res, err := engine.Aggregate(
		[]models.ParticipantAvailability{{ID: "p1", Availability: []models.AvailabilitySlot{broken}}},
		nil, day, day.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Empty(t, res.Buckets)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "broken")
}

func TestHeatLevel_Bounds(t *testing.T) {
	// The formula path must stay inside 1..3 for strictly intermediate
	// counts at any group size.
	for total := 6; total <= 40; total++ {
		for count := 2; count < total; count++ {
			level := heatLevel(count, total)
			assert.GreaterOrEqual(t, level, 1, "total=%d count=%d", total, count)
			assert.LessOrEqual(t, level, 3, "total=%d count=%d", total, count)
		}
	}
}
