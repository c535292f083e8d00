package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_TruncatesToUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:30 on Jan 7 in UTC+5 is still Jan 6 in UTC.
	instant := time.Date(2025, 1, 7, 2, 30, 0, 0, loc)

	d := DateOf(instant)
	assert.Equal(t, "2025-01-06", d.ISO())
	assert.Equal(t, 1, d.WeekdayIndex()) // Monday
}

func TestCalendarDate_WeekMath(t *testing.T) {
	wed := NewCalendarDate(2025, time.January, 8)
	assert.Equal(t, "2025-01-05", wed.StartOfWeek().ISO()) // Sunday
	assert.Equal(t, 7, wed.AddDays(7).DaysSince(wed))
	assert.True(t, wed.Before(wed.AddDays(1)))
	assert.True(t, wed.AddDays(1).After(wed))
}

func TestCalendarDate_JSONRoundTrip(t *testing.T) {
	d := NewCalendarDate(2025, time.March, 31)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-31"`, string(data))

	var back CalendarDate
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(d))
}

func TestRecurrenceRule_Defaults(t *testing.T) {
	rule := RecurrenceRule{Kind: RecurrenceDaily}
	assert.Equal(t, 1, rule.IntervalOrDefault())
	assert.True(t, rule.IsRecurring())
	assert.False(t, RecurrenceRule{Kind: RecurrenceNone}.IsRecurring())
	assert.False(t, RecurrenceRule{}.IsRecurring())

	rule.ExceptionDates = []CalendarDate{NewCalendarDate(2025, time.May, 1)}
	assert.True(t, rule.HasException(NewCalendarDate(2025, time.May, 1)))
	assert.False(t, rule.HasException(NewCalendarDate(2025, time.May, 2)))
}

func TestTimeSlot_TemplateMinutes(t *testing.T) {
	slot := TimeSlot{
		Start: time.Date(2025, 1, 6, 23, 30, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 7, 0, 30, 0, 0, time.UTC),
	}
	assert.Equal(t, 23*60+30, slot.StartMinute())
	// Past-midnight ends stay monotonic.
	assert.Equal(t, 24*60+30, slot.EndMinute())
	assert.Equal(t, time.Hour, slot.Duration())
}
