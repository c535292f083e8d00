package schedule

import (
	"github.com/kien-ship-it/event-matcher-sub000/models"
)

// MayOverlap decides whether two slots can ever coincide in time, without
// expanding either. Used at slot-creation time to reject conflicting slots,
// so open-ended rules must not force enumeration.
//
// For two recurring slots the check is deliberately coarse: exception dates
// are ignored, so two rules whose actual occurrences are all mutually
// excepted still count as overlapping. A one-time slot landing exactly on a
// recurring slot's exception date does not conflict.
func (e *DefaultRecurrenceEngine) MayOverlap(a, b models.TimeSlot) bool {
	aRec := a.Rule.IsRecurring()
	bRec := b.Rule.IsRecurring()

	switch {
	case !aRec && !bRec:
		return a.Start.Before(b.End) && a.End.After(b.Start)
	case aRec && bRec:
		return recurringPairOverlap(a, b)
	case aRec:
		return recurringVsSingleOverlap(a, b)
	default:
		return recurringVsSingleOverlap(b, a)
	}
}

// recurringPairOverlap requires time-of-day overlap, compatible weekday
// sets, and intersecting active date ranges.
func recurringPairOverlap(a, b models.TimeSlot) bool {
	if !timeOfDayOverlap(a, b) {
		return false
	}
	aDays, ok := weekdaysOf(a.Rule)
	if !ok {
		return false
	}
	bDays, ok := weekdaysOf(b.Rule)
	if !ok {
		return false
	}
	if !weekdaySetsIntersect(aDays, bDays) {
		return false
	}
	return activeRangesIntersect(a, b)
}

// recurringVsSingleOverlap checks a one-time slot against a recurring one:
// the one-time slot's date must lie in the recurring slot's active range,
// survive its exception list, match its day-membership test, and overlap in
// time of day.
func recurringVsSingleOverlap(rec, single models.TimeSlot) bool {
	date := single.StartDate()
	if !activeRangeContains(rec, date) {
		return false
	}
	if rec.Rule.HasException(date) {
		return false
	}
	if !dayMatches(rec.Rule, rec.StartDate(), date) {
		return false
	}
	return timeOfDayOverlap(rec, single)
}

// timeOfDayOverlap compares the two templates' daily minute ranges,
// ignoring dates.
func timeOfDayOverlap(a, b models.TimeSlot) bool {
	return a.StartMinute() < b.EndMinute() && a.EndMinute() > b.StartMinute()
}

func weekdaySetsIntersect(a, b []int) bool {
	for _, wd := range a {
		if containsWeekday(b, wd) {
			return true
		}
	}
	return false
}
