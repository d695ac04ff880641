package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/repository"
)

const taskColumns = `id, user_id, title, description, category, priority, status,
	is_project, subtasks, progress, source, completed, completed_at,
	snoozed_until, dismissed, deleted, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) ListByUser(ctx context.Context, userID string, filter repository.TaskFilter) ([]domain.Task, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM tasks
	WHERE user_id = $1
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR source = $3)
	  AND (NOT $4 OR is_project)
	  AND ($5 OR (NOT deleted AND NOT dismissed))
	  AND ($6::timestamptz IS NULL OR created_at >= $6)
	  AND ($7::timestamptz IS NULL OR created_at < $7)
	ORDER BY created_at DESC
	LIMIT $8 OFFSET $9
	`, taskColumns)

	rows, err := r.pool.Query(ctx, query,
		userID,
		string(filter.Status),
		string(filter.Source),
		filter.OnlyProjects,
		filter.IncludeHidden,
		nullTime(filter.CreatedAfter),
		nullTime(filter.CreatedBefore),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, classify(rows.Err())
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, category, priority, status,
		is_project, subtasks, progress, source, completed, completed_at,
		snoozed_until, dismissed, deleted)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	RETURNING created_at, updated_at
	`

	var completedAt, snoozedUntil interface{}
	if task.CompletedAt != nil {
		completedAt = *task.CompletedAt
	}
	if task.SnoozedUntil != nil {
		snoozedUntil = *task.SnoozedUntil
	}

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Category),
		string(task.Priority),
		string(task.Status),
		task.IsProject,
		marshalSubtasks(task.Subtasks),
		task.Progress,
		string(task.Source),
		task.Completed,
		completedAt,
		snoozedUntil,
		task.Dismissed,
		task.Deleted,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, classify(err)
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch repository.TaskPatch) (*domain.Task, error) {
	if patch.IsZero() {
		return r.GetByID(ctx, id)
	}

	setClause, args := buildPatch(patch, 2)
	query := fmt.Sprintf(`
	UPDATE tasks
	SET %s
	WHERE id = $1
	RETURNING %s
	`, setClause, taskColumns)

	row := r.pool.QueryRow(ctx, query, append([]interface{}{id}, args...)...)
	return scanTask(row)
}

// BatchUpdate applies the same patch to every ID inside one transaction. If
// any ID is missing or any statement fails, the whole batch rolls back.
func (r *taskRepository) BatchUpdate(ctx context.Context, ids []string, patch repository.TaskPatch) error {
	if len(ids) == 0 || patch.IsZero() {
		return nil
	}

	setClause, args := buildPatch(patch, 2)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $1`, setClause)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, append([]interface{}{id}, args...)...)
	}

	results := tx.SendBatch(ctx, batch)
	for _, id := range ids {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return classify(err)
		}
		if tag.RowsAffected() == 0 {
			results.Close()
			return domain.WrapError(domain.ErrCodeNotFound, "task not found in batch", fmt.Errorf("id %s", id))
		}
	}
	if err := results.Close(); err != nil {
		return classify(err)
	}

	return classify(tx.Commit(ctx))
}

func (r *taskRepository) DeletePermanently(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CountRecentByTitle(ctx context.Context, userID, title string, since time.Time) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM tasks
	WHERE user_id = $1
	  AND title = $2
	  AND NOT deleted
	  AND created_at >= $3
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID, title, since).Scan(&count); err != nil {
		return 0, classify(err)
	}
	return count, nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		completedAt  *time.Time
		snoozedUntil *time.Time
		subtasks     []byte
	)

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Category,
		&task.Priority,
		&task.Status,
		&task.IsProject,
		&subtasks,
		&task.Progress,
		&task.Source,
		&task.Completed,
		&completedAt,
		&snoozedUntil,
		&task.Dismissed,
		&task.Deleted,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, classify(err)
	}

	task.CompletedAt = completedAt
	task.SnoozedUntil = snoozedUntil
	if len(subtasks) > 0 {
		_ = json.Unmarshal(subtasks, &task.Subtasks)
	}

	return &task, nil
}
