package schedule

import (
	"github.com/kien-ship-it/event-matcher-sub000/models"
)

// ruleProblem returns a description of a structural defect in a recurring
// rule, or "" when the rule is usable. A defective rule generates zero
// instances; the description is surfaced to the caller as a warning.
func ruleProblem(rule models.RecurrenceRule) string {
	switch rule.Kind {
	case models.RecurrenceWeekly:
		if rule.Weekday == nil {
			return "weekly rule has no weekday"
		}
		if *rule.Weekday < 0 || *rule.Weekday > 6 {
			return "weekly rule weekday out of range"
		}
	case models.RecurrenceWeeklyPattern:
		if len(rule.Weekdays) == 0 {
			return "weekly pattern rule has an empty weekday set"
		}
		for _, wd := range rule.Weekdays {
			if wd < 0 || wd > 6 {
				return "weekly pattern rule weekday out of range"
			}
		}
	}
	return ""
}

// dayMatches tests day-membership: whether date is a generation day for the
// rule, given the slot's implicit start date. Exceptions and end dates are
// checked separately.
func dayMatches(rule models.RecurrenceRule, startDate, date models.CalendarDate) bool {
	if date.Before(startDate) {
		return false
	}
	switch rule.Kind {
	case models.RecurrenceDaily:
		return date.DaysSince(startDate)%rule.IntervalOrDefault() == 0
	case models.RecurrenceWeekly:
		return rule.Weekday != nil && date.WeekdayIndex() == *rule.Weekday
	case models.RecurrenceWeeklyPattern:
		if !containsWeekday(rule.Weekdays, date.WeekdayIndex()) {
			return false
		}
		// Week index counts from the start date's week, Sunday-anchored.
		weeks := date.StartOfWeek().DaysSince(startDate.StartOfWeek()) / 7
		return weeks%rule.IntervalOrDefault() == 0
	}
	return false
}

func containsWeekday(weekdays []int, wd int) bool {
	for _, w := range weekdays {
		if w == wd {
			return true
		}
	}
	return false
}

// weekdaysOf returns the rule's generation weekdays for compatibility
// checks. Daily rules cover every weekday. ok is false when the rule is
// recurring but cannot generate anything.
func weekdaysOf(rule models.RecurrenceRule) (days []int, ok bool) {
	switch rule.Kind {
	case models.RecurrenceDaily:
		return []int{0, 1, 2, 3, 4, 5, 6}, true
	case models.RecurrenceWeekly:
		if rule.Weekday == nil {
			return nil, false
		}
		return []int{*rule.Weekday}, true
	case models.RecurrenceWeeklyPattern:
		if len(rule.Weekdays) == 0 {
			return nil, false
		}
		return rule.Weekdays, true
	}
	return nil, false
}

// activeRangeContains reports whether date falls in the slot's active range
// [startDate, endDate), a missing end date meaning unbounded.
func activeRangeContains(slot models.TimeSlot, date models.CalendarDate) bool {
	if date.Before(slot.StartDate()) {
		return false
	}
	return slot.Rule.EndDate == nil || date.Before(*slot.Rule.EndDate)
}

// activeRangesIntersect reports whether two slots' active date ranges share
// at least one day. Both ranges are [startDate, endDate) with missing end
// dates unbounded.
func activeRangesIntersect(a, b models.TimeSlot) bool {
	if a.Rule.EndDate != nil && !b.StartDate().Before(*a.Rule.EndDate) {
		return false
	}
	if b.Rule.EndDate != nil && !a.StartDate().Before(*b.Rule.EndDate) {
		return false
	}
	return true
}
