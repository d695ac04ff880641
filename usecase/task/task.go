// Package task implements the lifecycle engine: validation, the duplicate
// guard, and every legal state transition on a task record.
package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/pkg/retry"
	"github.com/nestly/backend/repository"
	"github.com/nestly/backend/usecase"
)

// Config tunes the use case. Zero values fall back to the shipped defaults.
type Config struct {
	DuplicateWindow time.Duration
	Retry           retry.Policy
}

type UseCase struct {
	tasks  repository.TaskRepository
	guard  repository.DuplicateGuard
	buffer usecase.OperationBuffer
	logger *zap.Logger
	cfg    Config
	now    func() time.Time
}

func New(tasks repository.TaskRepository, guard repository.DuplicateGuard, buffer usecase.OperationBuffer, logger *zap.Logger, cfg Config) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DuplicateWindow <= 0 {
		cfg.DuplicateWindow = time.Hour
	}
	return &UseCase{
		tasks:  tasks,
		guard:  guard,
		buffer: buffer,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithClock overrides the time source.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

func retryable(err error) bool {
	return domain.IsDomainError(err, domain.ErrCodeUnavailable)
}

// Create validates, normalizes and inserts a new task. A task with the same
// title created by the same user inside the duplicate window is rejected
// before anything is written.
func (uc *UseCase) Create(ctx context.Context, input domain.TaskInput) (*domain.Task, error) {
	task, err := domain.NormalizeNewTask(input)
	if err != nil {
		return nil, err
	}

	now := uc.now()

	if uc.guard != nil {
		ok, err := uc.guard.Reserve(ctx, task.UserID, task.Title, now)
		if err != nil {
			// The fingerprint is race hardening on top of the window query;
			// a down guard must not block creates.
			uc.logger.Warn("duplicate guard unavailable, relying on window query", zap.Error(err))
		} else if !ok {
			return nil, domain.ErrDuplicateTask
		}
	}

	count, err := uc.tasks.CountRecentByTitle(ctx, task.UserID, task.Title, now.Add(-uc.cfg.DuplicateWindow))
	if err != nil {
		uc.releaseGuard(ctx, task.UserID, task.Title, now)
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrDuplicateTask
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		// A buffered create must still hand the caller a referenceable ID,
		// the same one the replay will insert under.
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		if uc.shouldBuffer(ctx, err, task) {
			return task, nil
		}
		uc.releaseGuard(ctx, task.UserID, task.Title, now)
		return nil, err
	}
	return created, nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := retry.Do(ctx, uc.cfg.Retry, retryable, func(ctx context.Context) error {
		var err error
		task, err = uc.tasks.GetByID(ctx, id)
		return err
	})
	return task, err
}

func (uc *UseCase) List(ctx context.Context, userID string, filter repository.TaskFilter) ([]domain.Task, error) {
	var tasks []domain.Task
	err := retry.Do(ctx, uc.cfg.Retry, retryable, func(ctx context.Context) error {
		var err error
		tasks, err = uc.tasks.ListByUser(ctx, userID, filter)
		return err
	})
	return tasks, err
}

// EditInput carries the caller-editable fields. Nil means unchanged.
type EditInput struct {
	Title       *string
	Description *string
	Category    *domain.Category
	Priority    *domain.Priority
}

// Edit updates descriptive fields. Lifecycle fields (progress, completion and
// snooze stamps) are never caller-writable; they only move through the
// transition methods below. Text fields persist in trimmed form, same as on
// create, so the duplicate guard and title dedup keep matching exactly.
func (uc *UseCase) Edit(ctx context.Context, id string, input EditInput) (*domain.Task, error) {
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		input.Title = &trimmed
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		input.Description = &trimmed
	}
	if err := domain.ValidateEdit(input.Title, input.Description, input.Category, input.Priority); err != nil {
		return nil, err
	}

	task, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == domain.StatusArchived {
		return nil, domain.NewError(domain.ErrCodeInvalid, "archived tasks cannot be edited")
	}

	patch := repository.TaskPatch{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
	}
	return uc.persist(ctx, task, patch)
}

// Complete transitions an effectively active task to completed.
func (uc *UseCase) Complete(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if task.EffectiveStatus(now) != domain.StatusActive {
		return nil, domain.NewError(domain.ErrCodeInvalid, "only active tasks can be completed")
	}

	patch := completionPatch(now)
	return uc.persist(ctx, task, patch)
}

// Uncomplete reopens a completed task, clearing its completion stamp.
func (uc *UseCase) Uncomplete(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.IsCompleted() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "only completed tasks can be reopened")
	}

	status := domain.StatusActive
	completed := false
	var completedAt *time.Time
	patch := repository.TaskPatch{
		Status:      &status,
		Completed:   &completed,
		CompletedAt: &completedAt,
	}
	return uc.persist(ctx, task, patch)
}

// Snooze hides an active task until the given time, which must be strictly in
// the future. There is no background job waking snoozed tasks up: the read
// path treats a lapsed snooze as active.
func (uc *UseCase) Snooze(ctx context.Context, id string, until time.Time) (*domain.Task, error) {
	now := uc.now()
	if !until.After(now) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "snooze target must be in the future")
	}

	task, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.EffectiveStatus(now) != domain.StatusActive {
		return nil, domain.NewError(domain.ErrCodeInvalid, "only active tasks can be snoozed")
	}

	status := domain.StatusSnoozed
	target := until
	snoozedUntil := &target
	patch := repository.TaskPatch{
		Status:       &status,
		SnoozedUntil: &snoozedUntil,
	}
	return uc.persist(ctx, task, patch)
}

// Archive is the default delete: the record keeps existing but is excluded
// from every view. Terminal for the normal API.
func (uc *UseCase) Archive(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == domain.StatusArchived {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task is already archived")
	}

	status := domain.StatusArchived
	deleted := true
	patch := repository.TaskPatch{
		Status:  &status,
		Deleted: &deleted,
	}
	return uc.persist(ctx, task, patch)
}

// Dismiss soft-hides a task from every view without archiving it.
func (uc *UseCase) Dismiss(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	dismissed := true
	patch := repository.TaskPatch{Dismissed: &dismissed}
	return uc.persist(ctx, task, patch)
}

// BulkComplete marks every listed task completed in a single all-or-nothing
// batch. Unlike single-task writes this never falls back to the offline
// buffer: partial application is worse than failing loudly.
func (uc *UseCase) BulkComplete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	patch := completionPatch(uc.now())
	return retry.Do(ctx, uc.cfg.Retry, retryable, func(ctx context.Context) error {
		return uc.tasks.BatchUpdate(ctx, ids, patch)
	})
}

// DeletePermanently physically removes the record. Irreversible.
func (uc *UseCase) DeletePermanently(ctx context.Context, id string) error {
	return retry.Do(ctx, uc.cfg.Retry, retryable, func(ctx context.Context) error {
		return uc.tasks.DeletePermanently(ctx, id)
	})
}

func completionPatch(now time.Time) repository.TaskPatch {
	status := domain.StatusCompleted
	completed := true
	stamp := now
	completedAt := &stamp
	var snoozedUntil *time.Time
	return repository.TaskPatch{
		Status:       &status,
		Completed:    &completed,
		CompletedAt:  &completedAt,
		SnoozedUntil: &snoozedUntil,
	}
}

// persist applies the patch with bounded retries and, when the store stays
// unavailable, buffers the full post-change snapshot instead of losing the
// write.
func (uc *UseCase) persist(ctx context.Context, task *domain.Task, patch repository.TaskPatch) (*domain.Task, error) {
	var updated *domain.Task
	err := retry.Do(ctx, uc.cfg.Retry, retryable, func(ctx context.Context) error {
		var err error
		updated, err = uc.tasks.Update(ctx, task.ID, patch)
		return err
	})
	if err != nil {
		snapshot := applyPatch(*task, patch, uc.now())
		if uc.shouldBuffer(ctx, err, &snapshot) {
			return &snapshot, nil
		}
		return nil, err
	}
	return updated, nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, cause error, task *domain.Task) bool {
	if uc.buffer == nil || !domain.IsDomainError(cause, domain.ErrCodeUnavailable) {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, usecase.OperationUpsert, task); err != nil {
		uc.logger.Error("failed to buffer task write", zap.String("task_id", task.ID), zap.Error(err))
		return false
	}
	uc.logger.Warn("task write buffered", zap.String("task_id", task.ID))
	return true
}

func (uc *UseCase) releaseGuard(ctx context.Context, userID, title string, now time.Time) {
	if uc.guard == nil {
		return
	}
	if err := uc.guard.Release(ctx, userID, title, now); err != nil {
		uc.logger.Warn("failed to release duplicate fingerprint", zap.Error(err))
	}
}

// applyPatch mirrors the store-side patch application for buffered snapshots.
func applyPatch(task domain.Task, patch repository.TaskPatch, now time.Time) domain.Task {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.IsProject != nil {
		task.IsProject = *patch.IsProject
	}
	if patch.Subtasks != nil {
		task.Subtasks = *patch.Subtasks
	}
	if patch.Progress != nil {
		task.Progress = *patch.Progress
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.CompletedAt != nil {
		task.CompletedAt = *patch.CompletedAt
	}
	if patch.SnoozedUntil != nil {
		task.SnoozedUntil = *patch.SnoozedUntil
	}
	if patch.Dismissed != nil {
		task.Dismissed = *patch.Dismissed
	}
	if patch.Deleted != nil {
		task.Deleted = *patch.Deleted
	}
	task.UpdatedAt = now
	return task
}
