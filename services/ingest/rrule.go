// Package ingest translates external recurrence representations into the
// engine's unified rule type. All normalization of wire forms happens here,
// so the engine itself never sees legacy or iCalendar shapes.
package ingest

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

// WireRule is the recurrence as submitted by clients. It covers both the
// legacy single-weekday form (repeat=weekly with a lone weekday) and the
// richer pattern form (weekday set plus a week interval).
type WireRule struct {
	Repeat         string   `json:"repeat"`                   // "none", "daily", "weekly", "pattern"
	Weekday        *int     `json:"weekday,omitempty"`        // legacy weekly, 0=Sunday
	Weekdays       []int    `json:"weekdays,omitempty"`       // pattern form
	Interval       int      `json:"interval,omitempty"`       // days or weeks
	EndDate        string   `json:"endDate,omitempty"`        // ISO date, exclusive
	ExceptionDates []string `json:"exceptionDates,omitempty"` // ISO dates
}

// NormalizeRule converts a wire rule into the engine's unified form.
func NormalizeRule(w WireRule) (models.RecurrenceRule, error) {
	rule := models.RecurrenceRule{Interval: w.Interval}

	switch w.Repeat {
	case "", "none":
		return models.RecurrenceRule{Kind: models.RecurrenceNone}, nil
	case "daily":
		rule.Kind = models.RecurrenceDaily
	case "weekly":
		// Legacy clients send a single weekday; newer ones may send a set
		// even under the old name.
		if len(w.Weekdays) > 0 {
			rule.Kind = models.RecurrenceWeeklyPattern
			rule.Weekdays = w.Weekdays
		} else {
			rule.Kind = models.RecurrenceWeekly
			rule.Weekday = w.Weekday
		}
	case "pattern":
		rule.Kind = models.RecurrenceWeeklyPattern
		rule.Weekdays = w.Weekdays
	default:
		return models.RecurrenceRule{}, fmt.Errorf("unknown repeat kind %q", w.Repeat)
	}

	if w.EndDate != "" {
		end, err := models.ParseCalendarDate(w.EndDate)
		if err != nil {
			return models.RecurrenceRule{}, fmt.Errorf("invalid end date %q: %w", w.EndDate, err)
		}
		rule.EndDate = &end
	}
	for _, raw := range w.ExceptionDates {
		ex, err := models.ParseCalendarDate(raw)
		if err != nil {
			return models.RecurrenceRule{}, fmt.Errorf("invalid exception date %q: %w", raw, err)
		}
		rule.ExceptionDates = append(rule.ExceptionDates, ex)
	}
	return rule, nil
}

// RuleFromRRule converts an iCalendar RRULE string into the engine's rule
// form. Only DAILY and WEEKLY frequencies map onto the engine's model.
func RuleFromRRule(rruleStr string, exdates []time.Time) (models.RecurrenceRule, error) {
	opt, err := rrule.StrToROption(rruleStr)
	if err != nil {
		return models.RecurrenceRule{}, fmt.Errorf("failed to parse RRULE %q: %w", rruleStr, err)
	}
	return ruleFromROption(opt, exdates)
}

func ruleFromROption(opt *rrule.ROption, exdates []time.Time) (models.RecurrenceRule, error) {
	rule := models.RecurrenceRule{Interval: opt.Interval}

	switch opt.Freq {
	case rrule.DAILY:
		rule.Kind = models.RecurrenceDaily
	case rrule.WEEKLY:
		weekdays := make([]int, 0, len(opt.Byweekday))
		for _, wd := range opt.Byweekday {
			weekdays = append(weekdays, icalWeekdayToIndex(wd))
		}
		if len(weekdays) == 1 && opt.Interval <= 1 {
			// The legacy representation: one weekday, every week.
			rule.Kind = models.RecurrenceWeekly
			rule.Weekday = &weekdays[0]
		} else {
			rule.Kind = models.RecurrenceWeeklyPattern
			rule.Weekdays = weekdays
		}
	default:
		return models.RecurrenceRule{}, fmt.Errorf("unsupported RRULE frequency %v", opt.Freq)
	}

	if !opt.Until.IsZero() {
		// iCalendar UNTIL is inclusive; the engine's end date is exclusive.
		end := models.DateOf(opt.Until).AddDays(1)
		rule.EndDate = &end
	}
	for _, ex := range exdates {
		rule.ExceptionDates = append(rule.ExceptionDates, models.DateOf(ex))
	}
	return rule, nil
}

// icalWeekdayToIndex maps rrule-go weekdays (0=Monday) onto the engine's
// 0=Sunday indexing.
func icalWeekdayToIndex(wd rrule.Weekday) int {
	return (wd.Day() + 1) % 7
}
