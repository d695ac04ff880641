package domain

import "time"

// RecurrenceType names the supported recurrence shapes.
type RecurrenceType string

const (
	RecurDaily        RecurrenceType = "daily"
	RecurWeekdays     RecurrenceType = "weekdays"
	RecurWeekends     RecurrenceType = "weekends"
	RecurWeekly       RecurrenceType = "weekly"
	RecurSpecificDays RecurrenceType = "specific_days"
)

// RecurrenceRule describes when instances of a recurring task should exist.
// Weekday numbering follows time.Weekday (Sunday = 0).
type RecurrenceRule struct {
	Type    RecurrenceType `json:"type"`
	WeekDay time.Weekday   `json:"week_day,omitempty"`
	Days    []time.Weekday `json:"days,omitempty"`
}

func (r RecurrenceRule) Valid() bool {
	switch r.Type {
	case RecurDaily, RecurWeekdays, RecurWeekends, RecurWeekly, RecurSpecificDays:
		return true
	}
	return false
}

// ShouldCreateOn reports whether an instance of the rule belongs on the given
// calendar date. The function is pure; tracking which instances were already
// materialized is the caller's problem.
func (r RecurrenceRule) ShouldCreateOn(date time.Time) bool {
	day := date.Weekday()
	switch r.Type {
	case RecurDaily:
		return true
	case RecurWeekdays:
		return day >= time.Monday && day <= time.Friday
	case RecurWeekends:
		return day == time.Saturday || day == time.Sunday
	case RecurWeekly:
		return day == r.WeekDay
	case RecurSpecificDays:
		for _, d := range r.Days {
			if d == day {
				return true
			}
		}
		return false
	}
	return false
}
