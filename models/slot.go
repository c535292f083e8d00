package models

import (
	"time"
)

// TimeSlot is the recurring time block shared by availability slots and busy
// blocks. Start/End define the template occurrence: their time-of-day and the
// duration End-Start are stamped onto every generated instance, and Start's
// date is the implicit first date of the rule.
type TimeSlot struct {
	ID    string         `bson:"id" json:"id"`
	Start time.Time      `bson:"start" json:"start"`
	End   time.Time      `bson:"end" json:"end"`
	Rule  RecurrenceRule `bson:"rule" json:"rule"`
}

// StartDate returns the slot's implicit first calendar date.
func (ts TimeSlot) StartDate() CalendarDate {
	return DateOf(ts.Start)
}

// Duration returns the length of one occurrence.
func (ts TimeSlot) Duration() time.Duration {
	return ts.End.Sub(ts.Start)
}

// StartMinute returns the template start as minutes from midnight UTC.
func (ts TimeSlot) StartMinute() int {
	u := ts.Start.UTC()
	return u.Hour()*60 + u.Minute()
}

// EndMinute returns the template end as minutes from the start's midnight.
// A slot running past midnight yields a value above 1440 so interval math
// stays monotonic.
func (ts TimeSlot) EndMinute() int {
	return ts.StartMinute() + int(ts.Duration()/time.Minute)
}

// AvailabilitySlot is one participant's declared free block.
type AvailabilitySlot struct {
	TimeSlot      `bson:",inline"`
	ParticipantID string `bson:"participantId" json:"participantId"`
}

// BusyBlock is an event occurrence that excludes one or more participants.
type BusyBlock struct {
	TimeSlot       `bson:",inline"`
	Title          string   `bson:"title,omitempty" json:"title,omitempty"`
	ParticipantIDs []string `bson:"participantIds,omitempty" json:"participantIds,omitempty"`
	Source         string   `bson:"source,omitempty" json:"source,omitempty"` // e.g. an external feed id
}

// ExpandedInstance is a concrete, non-recurring occurrence produced by the
// expander. ID is {originId}-{RFC3339 start}, stable across repeated calls.
type ExpandedInstance struct {
	ID       string    `json:"id"`
	OriginID string    `json:"originId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// ParticipantAvailability bundles one participant's slots for aggregation.
type ParticipantAvailability struct {
	ID           string             `json:"id"`
	Availability []AvailabilitySlot `json:"availability"`
	Highlighted  bool               `json:"highlighted"`
}
