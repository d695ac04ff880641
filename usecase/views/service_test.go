package views

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/pkg/retry"
	"github.com/nestly/backend/repository"
)

type fakeListRepo struct {
	tasks []domain.Task
	calls int
}

func (f *fakeListRepo) ListByUser(ctx context.Context, userID string, filter repository.TaskFilter) ([]domain.Task, error) {
	f.calls++
	start := filter.Offset
	if start > len(f.tasks) {
		start = len(f.tasks)
	}
	end := len(f.tasks)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return f.tasks[start:end], nil
}

func (f *fakeListRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return nil, domain.ErrTaskNotFound
}

func (f *fakeListRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	return task, nil
}

func (f *fakeListRepo) Update(ctx context.Context, id string, patch repository.TaskPatch) (*domain.Task, error) {
	return nil, domain.ErrTaskNotFound
}

func (f *fakeListRepo) BatchUpdate(ctx context.Context, ids []string, patch repository.TaskPatch) error {
	return nil
}

func (f *fakeListRepo) DeletePermanently(ctx context.Context, id string) error {
	return nil
}

func (f *fakeListRepo) CountRecentByTitle(ctx context.Context, userID, title string, since time.Time) (int, error) {
	return 0, nil
}

var _ repository.TaskRepository = (*fakeListRepo)(nil)

func newTestService(repo *fakeListRepo) *Service {
	policy := retry.Policy{Attempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
	return NewService(repo, DefaultConfig(), policy, nil).WithClock(func() time.Time { return testNow })
}

func TestServiceHidesTemplatesEverywhere(t *testing.T) {
	stale := testNow.Add(-6 * 24 * time.Hour)
	repo := &fakeListRepo{tasks: []domain.Task{
		{ID: "template-1", UserID: "u1", Title: "Seeded", Status: domain.StatusActive, Source: domain.SourceManual, CreatedAt: stale},
		{ID: "t1", UserID: "u1", Title: "Seeded project", Status: domain.StatusActive, Source: domain.SourceTemplate, IsProject: true, CreatedAt: stale},
		{ID: "t2", UserID: "u1", Title: "Real task", Status: domain.StatusActive, Source: domain.SourceManual, CreatedAt: stale},
	}}
	svc := newTestService(repo)

	dash, err := svc.LoadDashboard(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("LoadDashboard: %v", err)
	}
	if len(dash.Active) != 1 || dash.Active[0].ID != "t2" {
		t.Errorf("Active = %+v", dash.Active)
	}
	if len(dash.Projects) != 0 {
		t.Errorf("template project surfaced: %+v", dash.Projects)
	}
	if len(dash.PastPromises) != 1 || dash.PastPromises[0].ID != "t2" {
		t.Errorf("PastPromises = %+v", dash.PastPromises)
	}
}

func TestLoadDashboardReadsOnce(t *testing.T) {
	repo := &fakeListRepo{}
	svc := newTestService(repo)

	if _, err := svc.LoadDashboard(context.Background(), "u1", 10); err != nil {
		t.Fatalf("LoadDashboard: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("store reads = %d, want 1", repo.calls)
	}
}

func TestPastPromisesSurviveLargeBacklogs(t *testing.T) {
	// 650 tasks spans two store pages; the eligible stale task sits on the
	// second one.
	stale := testNow.Add(-6 * 24 * time.Hour)
	tasks := make([]domain.Task, 0, 650)
	for i := 0; i < 649; i++ {
		tasks = append(tasks, domain.Task{
			ID:        fmt.Sprintf("t%d", i),
			UserID:    "u1",
			Title:     fmt.Sprintf("Fresh %d", i),
			Status:    domain.StatusActive,
			Source:    domain.SourceManual,
			CreatedAt: testNow,
		})
	}
	tasks = append(tasks, domain.Task{
		ID:        "old",
		UserID:    "u1",
		Title:     "Forgotten chore",
		Status:    domain.StatusActive,
		Source:    domain.SourceManual,
		CreatedAt: stale,
	})
	repo := &fakeListRepo{tasks: tasks}
	svc := newTestService(repo)

	dash, err := svc.LoadDashboard(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("LoadDashboard: %v", err)
	}
	if len(dash.Active) != 650 {
		t.Errorf("Active = %d, want 650", len(dash.Active))
	}
	found := false
	for _, p := range dash.PastPromises {
		if p.ID == "old" {
			found = true
		}
	}
	if !found {
		t.Errorf("stale task missing from past promises: %+v", dash.PastPromises)
	}
	if repo.calls < 2 {
		t.Errorf("store reads = %d, want paged reads", repo.calls)
	}
}
