package domain

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// TaskInput carries the caller-supplied fields for a new task. Everything the
// engine derives (progress, completion stamps, snooze target) is absent on
// purpose: callers are never allowed to set those directly.
type TaskInput struct {
	UserID      string
	Title       string
	Description string
	Category    Category
	Priority    Priority
	Source      Source
}

// NormalizeNewTask validates the raw input and returns a fresh record with
// every default filled in. All constraint violations are collected, not just
// the first one, and reported together under a single INVALID error.
func NormalizeNewTask(in TaskInput) (*Task, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	var violations *multierror.Error

	if in.UserID == "" {
		violations = multierror.Append(violations, fmt.Errorf("user_id is required"))
	}
	if title == "" {
		violations = multierror.Append(violations, fmt.Errorf("title is required"))
	}
	if len([]rune(title)) > MaxTitleLength {
		violations = multierror.Append(violations, fmt.Errorf("title exceeds %d characters", MaxTitleLength))
	}
	if len([]rune(description)) > MaxDescriptionLength {
		violations = multierror.Append(violations, fmt.Errorf("description exceeds %d characters", MaxDescriptionLength))
	}
	if in.Category != "" && !in.Category.Valid() {
		violations = multierror.Append(violations, fmt.Errorf("unknown category %q", in.Category))
	}
	if in.Priority != "" && !in.Priority.Valid() {
		violations = multierror.Append(violations, fmt.Errorf("unknown priority %q", in.Priority))
	}
	if in.Source != "" && !in.Source.Valid() {
		violations = multierror.Append(violations, fmt.Errorf("unknown source %q", in.Source))
	}

	if err := violations.ErrorOrNil(); err != nil {
		return nil, WrapError(ErrCodeInvalid, "task validation failed", err)
	}

	task := &Task{
		UserID:      in.UserID,
		Title:       title,
		Description: description,
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      StatusActive,
		Source:      in.Source,
	}
	if task.Category == "" {
		task.Category = CategoryPersonal
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if task.Source == "" {
		task.Source = SourceManual
	}

	// Fresh lifecycle fields, stated explicitly.
	task.IsProject = false
	task.Subtasks = nil
	task.Progress = 0
	task.Completed = false
	task.CompletedAt = nil
	task.SnoozedUntil = nil
	task.Dismissed = false
	task.Deleted = false

	return task, nil
}

// ValidateEdit checks caller-editable fields on an existing record.
func ValidateEdit(title, description *string, category *Category, priority *Priority) error {
	var violations *multierror.Error

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			violations = multierror.Append(violations, fmt.Errorf("title is required"))
		}
		if len([]rune(trimmed)) > MaxTitleLength {
			violations = multierror.Append(violations, fmt.Errorf("title exceeds %d characters", MaxTitleLength))
		}
	}
	if description != nil && len([]rune(strings.TrimSpace(*description))) > MaxDescriptionLength {
		violations = multierror.Append(violations, fmt.Errorf("description exceeds %d characters", MaxDescriptionLength))
	}
	if category != nil && !category.Valid() {
		violations = multierror.Append(violations, fmt.Errorf("unknown category %q", *category))
	}
	if priority != nil && !priority.Valid() {
		violations = multierror.Append(violations, fmt.Errorf("unknown priority %q", *priority))
	}

	if err := violations.ErrorOrNil(); err != nil {
		return WrapError(ErrCodeInvalid, "task validation failed", err)
	}
	return nil
}
