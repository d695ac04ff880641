package repository

import (
	"context"
	"time"

	"github.com/nestly/backend/domain"
)

// TaskFilter narrows ListByUser. Zero values mean "no constraint".
type TaskFilter struct {
	Status        domain.Status
	Source        domain.Source
	OnlyProjects  bool
	IncludeHidden bool // deleted/dismissed/template records; debugging only
	CreatedAfter  time.Time
	CreatedBefore time.Time
	Limit         int
	Offset        int
}

// TaskPatch is a partial update. Nil fields are left untouched. Double
// pointers distinguish "clear this timestamp" (non-nil pointer to nil) from
// "leave it alone" (nil).
type TaskPatch struct {
	Title        *string
	Description  *string
	Category     *domain.Category
	Priority     *domain.Priority
	Status       *domain.Status
	IsProject    *bool
	Subtasks     *[]domain.Subtask
	Progress     *int
	Completed    *bool
	CompletedAt  **time.Time
	SnoozedUntil **time.Time
	Dismissed    *bool
	Deleted      *bool
}

// IsZero reports whether the patch would change nothing.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.Status == nil && p.IsProject == nil &&
		p.Subtasks == nil && p.Progress == nil && p.Completed == nil &&
		p.CompletedAt == nil && p.SnoozedUntil == nil &&
		p.Dismissed == nil && p.Deleted == nil
}

// TaskRepository is the abstract record store the lifecycle engine runs
// against. BatchUpdate must apply to every listed ID or to none.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id string, patch TaskPatch) (*domain.Task, error)
	BatchUpdate(ctx context.Context, ids []string, patch TaskPatch) error
	DeletePermanently(ctx context.Context, id string) error

	// CountRecentByTitle counts non-deleted tasks of the user with an exact
	// title match created at or after since. Backs the duplicate guard.
	CountRecentByTitle(ctx context.Context, userID, title string, since time.Time) (int, error)
}
