package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/repository"
	"github.com/nestly/backend/usecase"
)

// fakeTaskRepo is an in-memory TaskRepository. Error fields, when set, are
// returned instead of touching the store.
type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]domain.Task
	seq   int

	createErr error
	getErr    error
	updateErr error
	batchErr  error
	countErr  error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]domain.Task)}
}

func (f *fakeTaskRepo) put(task domain.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[task.ID] = task
}

func (f *fakeTaskRepo) get(id string) (domain.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	return task, ok
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copied := task
	return &copied, nil
}

func (f *fakeTaskRepo) ListByUser(ctx context.Context, userID string, filter repository.TaskFilter) ([]domain.Task, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Task
	for _, task := range f.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.ID == "" {
		f.seq++
		task.ID = fmt.Sprintf("task-%d", f.seq)
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.UpdatedAt = task.CreatedAt
	f.tasks[task.ID] = *task
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, id string, patch repository.TaskPatch) (*domain.Task, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	task = applyPatch(task, patch, time.Now())
	f.tasks[id] = task
	copied := task
	return &copied, nil
}

func (f *fakeTaskRepo) BatchUpdate(ctx context.Context, ids []string, patch repository.TaskPatch) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if _, ok := f.tasks[id]; !ok {
			return domain.ErrTaskNotFound
		}
	}
	for _, id := range ids {
		f.tasks[id] = applyPatch(f.tasks[id], patch, time.Now())
	}
	return nil
}

func (f *fakeTaskRepo) DeletePermanently(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) CountRecentByTitle(ctx context.Context, userID, title string, since time.Time) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, task := range f.tasks {
		if task.UserID == userID && task.Title == title && !task.Deleted && !task.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// fakeGuard records fingerprint reservations.
type fakeGuard struct {
	denied     bool
	reserveErr error
	reserves   int
	releases   int
}

func (g *fakeGuard) Reserve(ctx context.Context, userID, title string, now time.Time) (bool, error) {
	g.reserves++
	if g.reserveErr != nil {
		return false, g.reserveErr
	}
	return !g.denied, nil
}

func (g *fakeGuard) Release(ctx context.Context, userID, title string, now time.Time) error {
	g.releases++
	return nil
}

// fakeBuffer records buffered writes.
type fakeBuffer struct {
	tasks []domain.Task
	err   error
}

func (b *fakeBuffer) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if b.err != nil {
		return b.err
	}
	b.tasks = append(b.tasks, *task)
	return nil
}

func (b *fakeBuffer) BufferPreferences(ctx context.Context, prefs *domain.Preferences) error {
	return nil
}

var _ repository.TaskRepository = (*fakeTaskRepo)(nil)
var _ repository.DuplicateGuard = (*fakeGuard)(nil)
var _ usecase.OperationBuffer = (*fakeBuffer)(nil)
