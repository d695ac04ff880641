// Package project promotes tasks into subtask containers and keeps the
// derived completion percentage honest.
package project

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/pkg/retry"
	"github.com/nestly/backend/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
	policy retry.Policy
	now    func() time.Time
}

func New(tasks repository.TaskRepository, logger *zap.Logger, policy retry.Policy) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
		policy: policy,
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

// SubtaskInput carries a single caller-supplied step.
type SubtaskInput struct {
	Title string
}

// SubtaskPatch updates one subtask. Nil fields are untouched.
type SubtaskPatch struct {
	Title     *string
	Completed *bool
}

// Convert turns a plain task into a project. Subtasks get 1-based sequential
// IDs in array order and the progress percentage is computed, never accepted
// from the caller.
func (uc *UseCase) Convert(ctx context.Context, taskID string, inputs []SubtaskInput) (*domain.Task, error) {
	task, err := uc.get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsProject {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task is already a project")
	}
	if task.Status == domain.StatusArchived {
		return nil, domain.NewError(domain.ErrCodeInvalid, "archived tasks cannot become projects")
	}

	subtasks := make([]domain.Subtask, 0, len(inputs))
	for i, in := range inputs {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "subtask title is required")
		}
		subtasks = append(subtasks, domain.Subtask{
			ID:    i + 1,
			Title: title,
		})
	}

	task.Subtasks = subtasks
	progress := task.ComputeProgress()
	isProject := true

	patch := repository.TaskPatch{
		IsProject: &isProject,
		Subtasks:  &subtasks,
		Progress:  &progress,
	}
	return uc.update(ctx, taskID, patch)
}

// AddSubtask appends a step with the next sequential ID and recomputes progress.
func (uc *UseCase) AddSubtask(ctx context.Context, projectID string, input SubtaskInput) (*domain.Task, error) {
	task, err := uc.get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !task.IsProject {
		return nil, domain.ErrNotAProject
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "subtask title is required")
	}

	subtasks := append(append([]domain.Subtask(nil), task.Subtasks...), domain.Subtask{
		ID:    task.NextSubtaskID(),
		Title: title,
	})

	task.Subtasks = subtasks
	progress := task.ComputeProgress()

	patch := repository.TaskPatch{
		Subtasks: &subtasks,
		Progress: &progress,
	}
	return uc.update(ctx, projectID, patch)
}

// UpdateSubtask patches one step by ID. Toggling completion stamps or clears
// its timestamp; the project progress is recomputed either way, which makes
// repeated no-op calls idempotent.
func (uc *UseCase) UpdateSubtask(ctx context.Context, projectID string, subtaskID int, patch SubtaskPatch) (*domain.Task, error) {
	task, err := uc.get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !task.IsProject {
		return nil, domain.ErrNotAProject
	}

	subtasks := append([]domain.Subtask(nil), task.Subtasks...)
	var target *domain.Subtask
	for i := range subtasks {
		if subtasks[i].ID == subtaskID {
			target = &subtasks[i]
			break
		}
	}
	if target == nil {
		return nil, domain.ErrSubtaskNotFound
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "subtask title is required")
		}
		target.Title = title
	}
	if patch.Completed != nil && *patch.Completed != target.Completed {
		target.Completed = *patch.Completed
		if target.Completed {
			stamp := uc.now()
			target.CompletedAt = &stamp
		} else {
			target.CompletedAt = nil
		}
	}

	task.Subtasks = subtasks
	progress := task.ComputeProgress()

	repoPatch := repository.TaskPatch{
		Subtasks: &subtasks,
		Progress: &progress,
	}
	return uc.update(ctx, projectID, repoPatch)
}

func (uc *UseCase) get(ctx context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := retry.Do(ctx, uc.policy, retryable, func(ctx context.Context) error {
		var err error
		task, err = uc.tasks.GetByID(ctx, id)
		return err
	})
	return task, err
}

func (uc *UseCase) update(ctx context.Context, id string, patch repository.TaskPatch) (*domain.Task, error) {
	var task *domain.Task
	err := retry.Do(ctx, uc.policy, retryable, func(ctx context.Context) error {
		var err error
		task, err = uc.tasks.Update(ctx, id, patch)
		return err
	})
	return task, err
}
