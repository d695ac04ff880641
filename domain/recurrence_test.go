package domain

import (
	"testing"
	"time"
)

// The week of 2026-03-09: Monday the 9th through Sunday the 15th.
func dayOf(day int) time.Time {
	return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
}

func TestRecurrenceDaily(t *testing.T) {
	rule := RecurrenceRule{Type: RecurDaily}
	for day := 9; day <= 15; day++ {
		if !rule.ShouldCreateOn(dayOf(day)) {
			t.Errorf("daily rule skipped day %d", day)
		}
	}
}

func TestRecurrenceWeekdays(t *testing.T) {
	rule := RecurrenceRule{Type: RecurWeekdays}
	for day := 9; day <= 13; day++ {
		if !rule.ShouldCreateOn(dayOf(day)) {
			t.Errorf("weekdays rule skipped weekday %d", day)
		}
	}
	for _, day := range []int{14, 15} {
		if rule.ShouldCreateOn(dayOf(day)) {
			t.Errorf("weekdays rule fired on weekend day %d", day)
		}
	}
}

func TestRecurrenceWeekends(t *testing.T) {
	rule := RecurrenceRule{Type: RecurWeekends}
	for _, day := range []int{14, 15} {
		if !rule.ShouldCreateOn(dayOf(day)) {
			t.Errorf("weekends rule skipped weekend day %d", day)
		}
	}
	for day := 9; day <= 13; day++ {
		if rule.ShouldCreateOn(dayOf(day)) {
			t.Errorf("weekends rule fired on weekday %d", day)
		}
	}
}

func TestRecurrenceWeekly(t *testing.T) {
	rule := RecurrenceRule{Type: RecurWeekly, WeekDay: time.Monday}
	if !rule.ShouldCreateOn(dayOf(9)) {
		t.Error("weekly Monday rule skipped Monday")
	}
	if rule.ShouldCreateOn(dayOf(10)) {
		t.Error("weekly Monday rule fired on Tuesday")
	}
}

func TestRecurrenceSpecificDays(t *testing.T) {
	rule := RecurrenceRule{Type: RecurSpecificDays, Days: []time.Weekday{time.Monday, time.Thursday}}
	if !rule.ShouldCreateOn(dayOf(9)) {
		t.Error("rule skipped Monday")
	}
	if !rule.ShouldCreateOn(dayOf(12)) {
		t.Error("rule skipped Thursday")
	}
	if rule.ShouldCreateOn(dayOf(11)) {
		t.Error("rule fired on Wednesday")
	}

	empty := RecurrenceRule{Type: RecurSpecificDays}
	if empty.ShouldCreateOn(dayOf(9)) {
		t.Error("empty day list fired")
	}
}

func TestRecurrenceRuleValid(t *testing.T) {
	if !(RecurrenceRule{Type: RecurDaily}).Valid() {
		t.Error("daily rule reported invalid")
	}
	if (RecurrenceRule{Type: "monthly"}).Valid() {
		t.Error("unknown rule reported valid")
	}
}
