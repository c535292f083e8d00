package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

func TestNormalizeRule(t *testing.T) {
	tests := []struct {
		name     string
		wire     WireRule
		wantKind models.RecurrenceKind
	}{
		{name: "empty repeat means none", wire: WireRule{}, wantKind: models.RecurrenceNone},
		{name: "daily", wire: WireRule{Repeat: "daily", Interval: 2}, wantKind: models.RecurrenceDaily},
		{
			name:     "legacy weekly with single weekday",
			wire:     WireRule{Repeat: "weekly", Weekday: intPtr(1)},
			wantKind: models.RecurrenceWeekly,
		},
		{
			name:     "weekly with a weekday set becomes a pattern",
			wire:     WireRule{Repeat: "weekly", Weekdays: []int{1, 3}},
			wantKind: models.RecurrenceWeeklyPattern,
		},
		{
			name:     "pattern",
			wire:     WireRule{Repeat: "pattern", Weekdays: []int{2, 4}, Interval: 2},
			wantKind: models.RecurrenceWeeklyPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := NormalizeRule(tt.wire)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, rule.Kind)
		})
	}
}

func TestNormalizeRule_DatesAndErrors(t *testing.T) {
	rule, err := NormalizeRule(WireRule{
		Repeat:         "daily",
		EndDate:        "2025-06-01",
		ExceptionDates: []string{"2025-05-01", "2025-05-08"},
	})
	require.NoError(t, err)
	require.NotNil(t, rule.EndDate)
	assert.Equal(t, "2025-06-01", rule.EndDate.ISO())
	require.Len(t, rule.ExceptionDates, 2)

	_, err = NormalizeRule(WireRule{Repeat: "monthly"})
	assert.Error(t, err)

	_, err = NormalizeRule(WireRule{Repeat: "daily", EndDate: "June 1st"})
	assert.Error(t, err)
}

func TestRuleFromRRule(t *testing.T) {
	tests := []struct {
		name      string
		rrule     string
		wantKind  models.RecurrenceKind
		wantCheck func(t *testing.T, rule models.RecurrenceRule)
	}{
		{
			name:     "daily with interval",
			rrule:    "FREQ=DAILY;INTERVAL=3",
			wantKind: models.RecurrenceDaily,
			wantCheck: func(t *testing.T, rule models.RecurrenceRule) {
				assert.Equal(t, 3, rule.Interval)
			},
		},
		{
			name:     "weekly single BYDAY maps to the legacy form",
			rrule:    "FREQ=WEEKLY;BYDAY=MO",
			wantKind: models.RecurrenceWeekly,
			wantCheck: func(t *testing.T, rule models.RecurrenceRule) {
				require.NotNil(t, rule.Weekday)
				assert.Equal(t, 1, *rule.Weekday) // Monday
			},
		},
		{
			name:     "weekly BYDAY set maps to a pattern",
			rrule:    "FREQ=WEEKLY;BYDAY=SU,WE;INTERVAL=2",
			wantKind: models.RecurrenceWeeklyPattern,
			wantCheck: func(t *testing.T, rule models.RecurrenceRule) {
				assert.ElementsMatch(t, []int{0, 3}, rule.Weekdays)
				assert.Equal(t, 2, rule.Interval)
			},
		},
		{
			name:     "UNTIL converts from inclusive to exclusive",
			rrule:    "FREQ=DAILY;UNTIL=20250120T090000Z",
			wantKind: models.RecurrenceDaily,
			wantCheck: func(t *testing.T, rule models.RecurrenceRule) {
				require.NotNil(t, rule.EndDate)
				assert.Equal(t, "2025-01-21", rule.EndDate.ISO())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := RuleFromRRule(tt.rrule, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, rule.Kind)
			if tt.wantCheck != nil {
				tt.wantCheck(t, rule)
			}
		})
	}
}

func TestRuleFromRRule_UnsupportedFrequency(t *testing.T) {
	_, err := RuleFromRRule("FREQ=MONTHLY;BYMONTHDAY=1", nil)
	assert.Error(t, err)
}

func TestRuleFromRRule_Exdates(t *testing.T) {
	rule, err := RuleFromRRule("FREQ=WEEKLY;BYDAY=MO", []time.Time{
		time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, rule.ExceptionDates, 1)
	assert.Equal(t, "2025-01-13", rule.ExceptionDates[0].ISO())
}

func intPtr(v int) *int { return &v }
