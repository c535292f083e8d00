package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// RecurrenceKind tags the variant of a RecurrenceRule.
type RecurrenceKind string

const (
	// RecurrenceNone marks a single, non-repeating occurrence.
	RecurrenceNone RecurrenceKind = "none"
	// RecurrenceDaily repeats every Interval days.
	RecurrenceDaily RecurrenceKind = "daily"
	// RecurrenceWeekly is the legacy form: every week on exactly one weekday.
	RecurrenceWeekly RecurrenceKind = "weekly"
	// RecurrenceWeeklyPattern repeats every Interval weeks on a set of weekdays.
	RecurrenceWeeklyPattern RecurrenceKind = "weeklyPattern"
)

// RecurrenceRule is the unified recurrence definition. The legacy
// single-weekday form and the richer pattern form both normalize into this
// one type at the ingestion boundary, so the engine never branches on wire
// representations.
type RecurrenceRule struct {
	Kind     RecurrenceKind `bson:"kind" json:"kind"`
	Interval int            `bson:"interval,omitempty" json:"interval,omitempty"` // days (daily) or weeks (weeklyPattern); 0 means 1
	Weekday  *int           `bson:"weekday,omitempty" json:"weekday,omitempty"`   // legacy weekly: 0=Sunday .. 6=Saturday
	Weekdays []int          `bson:"weekdays,omitempty" json:"weekdays,omitempty"` // weeklyPattern: 0=Sunday .. 6=Saturday

	// EndDate is exclusive: no instance is ever generated on the end date
	// itself.
	EndDate *CalendarDate `bson:"endDate,omitempty" json:"endDate,omitempty"`
	// ExceptionDates suppress otherwise-matching instances on those dates.
	ExceptionDates []CalendarDate `bson:"exceptionDates,omitempty" json:"exceptionDates,omitempty"`
}

// IsRecurring reports whether the rule generates more than a single
// occurrence.
func (r RecurrenceRule) IsRecurring() bool {
	return r.Kind != "" && r.Kind != RecurrenceNone
}

// IntervalOrDefault returns the repeat interval, defaulting to 1.
func (r RecurrenceRule) IntervalOrDefault() int {
	if r.Interval <= 0 {
		return 1
	}
	return r.Interval
}

// HasException reports whether d is suppressed by the rule.
func (r RecurrenceRule) HasException(d CalendarDate) bool {
	for _, ex := range r.ExceptionDates {
		if ex.Equal(d) {
			return true
		}
	}
	return false
}

// CalendarDate is a date-only value. It is stored as the UTC midnight of the
// day it names, so two CalendarDates naming the same day always compare
// equal.
type CalendarDate struct {
	time.Time
}

// DateOf truncates an instant to its UTC calendar date.
func DateOf(t time.Time) CalendarDate {
	u := t.UTC()
	return CalendarDate{time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// NewCalendarDate builds a CalendarDate for the given day.
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// AddDays steps the date forward (or backward) by n days.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return CalendarDate{d.Time.AddDate(0, 0, n)}
}

// DaysSince returns the whole number of days from other to d.
func (d CalendarDate) DaysSince(other CalendarDate) int {
	return int(d.Time.Sub(other.Time) / (24 * time.Hour))
}

// WeekdayIndex returns the weekday as 0=Sunday .. 6=Saturday, matching the
// rule encoding.
func (d CalendarDate) WeekdayIndex() int {
	return int(d.Time.Weekday())
}

// StartOfWeek returns the Sunday on or before d. Week indexing for
// interval-gated weekly patterns is anchored on this.
func (d CalendarDate) StartOfWeek() CalendarDate {
	return d.AddDays(-d.WeekdayIndex())
}

// Before reports whether d names an earlier day than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d names a later day than other.
func (d CalendarDate) After(other CalendarDate) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether both values name the same day.
func (d CalendarDate) Equal(other CalendarDate) bool {
	return d.Time.Equal(other.Time)
}

// ISO formats the date as "2006-01-02".
func (d CalendarDate) ISO() string {
	return d.Time.Format("2006-01-02")
}

// ParseCalendarDate parses an ISO "2006-01-02" date.
func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CalendarDate{}, err
	}
	return CalendarDate{t}, nil
}

// MarshalJSON encodes the date as an ISO "2006-01-02" string.
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.ISO() + `"`), nil
}

// UnmarshalJSON accepts an ISO "2006-01-02" string.
func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBSONValue stores the date as an ISO string.
func (d CalendarDate) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.ISO())
}

// UnmarshalBSONValue reads the ISO string form back.
func (d *CalendarDate) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var s string
	if err := bson.UnmarshalValue(t, data, &s); err != nil {
		return err
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
