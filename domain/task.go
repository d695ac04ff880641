package domain

import (
	"math"
	"strings"
	"time"
)

// Category buckets every task into one of the fixed household areas.
type Category string

const (
	CategoryPersonal     Category = "personal"
	CategoryHousehold    Category = "household"
	CategoryHomeProjects Category = "home_projects"
	CategoryBaby         Category = "baby"
	CategoryRelationship Category = "relationship"
	CategoryHealth       Category = "health"
	CategoryEvents       Category = "events"
	CategoryMaintenance  Category = "maintenance"
	CategoryWork         Category = "work"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryPersonal,
	CategoryHousehold,
	CategoryHomeProjects,
	CategoryBaby,
	CategoryRelationship,
	CategoryHealth,
	CategoryEvents,
	CategoryMaintenance,
	CategoryWork,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Priority is the coarse urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Status is the last explicitly applied lifecycle state. The read path may
// report a different effective status for expired snoozes, see EffectiveStatus.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusSnoozed   Status = "snoozed"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusSnoozed, StatusArchived:
		return true
	}
	return false
}

// Source records how a task entered the system.
type Source string

const (
	SourceManual   Source = "manual"
	SourceAIMentor Source = "ai_mentor"
	SourceVoice    Source = "voice"
	SourceTemplate Source = "template"
)

func (s Source) Valid() bool {
	switch s {
	case SourceManual, SourceAIMentor, SourceVoice, SourceTemplate:
		return true
	}
	return false
}

// templateIDPrefixes identifies seeded records by their ID shape. Records
// matching any prefix are invisible to every derived view, same as
// Source == SourceTemplate.
var templateIDPrefixes = []string{"template-", "seed-", "starter-"}

// Subtask is one ordered step inside a project. IDs are 1-based and
// sequential in append order.
type Subtask struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Task is the single mutable record every view is derived from.
type Task struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Category     Category   `json:"category"`
	Priority     Priority   `json:"priority"`
	Status       Status     `json:"status"`
	IsProject    bool       `json:"is_project"`
	Subtasks     []Subtask  `json:"subtasks,omitempty"`
	Progress     int        `json:"progress"`
	Source       Source     `json:"source"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	SnoozedUntil *time.Time `json:"snoozed_until,omitempty"`
	Dismissed    bool       `json:"dismissed"`
	Deleted      bool       `json:"deleted"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// EffectiveStatus reports the status the read path should treat the task as
// having. A snoozed task whose snooze has lapsed counts as active; the stored
// record is never rewritten for this (there is no background job).
func (t *Task) EffectiveStatus(now time.Time) Status {
	if t == nil {
		return ""
	}
	if t.Status == StatusSnoozed && t.SnoozedUntil != nil && !t.SnoozedUntil.After(now) {
		return StatusActive
	}
	return t.Status
}

// IsTemplate reports whether the record is a synthetic seed that must never
// surface in a user-facing view.
func (t *Task) IsTemplate() bool {
	if t == nil {
		return false
	}
	if t.Source == SourceTemplate {
		return true
	}
	for _, prefix := range templateIDPrefixes {
		if strings.HasPrefix(t.ID, prefix) {
			return true
		}
	}
	return false
}

// Visible reports whether the record may appear in any derived view.
func (t *Task) Visible() bool {
	return t != nil && !t.Deleted && !t.Dismissed && !t.IsTemplate()
}

// ComputeProgress returns the derived completion percentage for the current
// subtask list: round(100 * completed / total), or 0 with no subtasks.
func (t *Task) ComputeProgress() int {
	if t == nil || len(t.Subtasks) == 0 {
		return 0
	}
	done := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(t.Subtasks))))
}

// FindSubtask returns the subtask with the given ID, or nil.
func (t *Task) FindSubtask(id int) *Subtask {
	if t == nil {
		return nil
	}
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i]
		}
	}
	return nil
}

// NextSubtaskID returns the sequential ID for the next appended subtask.
func (t *Task) NextSubtaskID() int {
	max := 0
	for _, st := range t.Subtasks {
		if st.ID > max {
			max = st.ID
		}
	}
	return max + 1
}
