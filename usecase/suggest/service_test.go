package suggest

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/pkg/retry"
	"github.com/nestly/backend/repository"
)

type fakePrefRepo struct {
	prefs *domain.Preferences
}

func (f *fakePrefRepo) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	if f.prefs == nil {
		return domain.DefaultPreferences(userID), nil
	}
	return f.prefs, nil
}

func (f *fakePrefRepo) Upsert(ctx context.Context, prefs *domain.Preferences) error {
	f.prefs = prefs
	return nil
}

type fakeHistoryRepo struct {
	tasks  []domain.Task
	filter repository.TaskFilter
}

func (f *fakeHistoryRepo) ListByUser(ctx context.Context, userID string, filter repository.TaskFilter) ([]domain.Task, error) {
	f.filter = filter
	return f.tasks, nil
}

func (f *fakeHistoryRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return nil, domain.ErrTaskNotFound
}

func (f *fakeHistoryRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	return task, nil
}

func (f *fakeHistoryRepo) Update(ctx context.Context, id string, patch repository.TaskPatch) (*domain.Task, error) {
	return nil, domain.ErrTaskNotFound
}

func (f *fakeHistoryRepo) BatchUpdate(ctx context.Context, ids []string, patch repository.TaskPatch) error {
	return nil
}

func (f *fakeHistoryRepo) DeletePermanently(ctx context.Context, id string) error {
	return nil
}

func (f *fakeHistoryRepo) CountRecentByTitle(ctx context.Context, userID, title string, since time.Time) (int, error) {
	return 0, nil
}

var (
	_ repository.PreferenceRepository = (*fakePrefRepo)(nil)
	_ repository.TaskRepository       = (*fakeHistoryRepo)(nil)
)

func newTestService(tasks *fakeHistoryRepo, prefs *fakePrefRepo, now time.Time) *Service {
	engine := NewEngine(Config{}, rand.New(rand.NewSource(1)))
	policy := retry.Policy{Attempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
	return NewService(engine, tasks, prefs, policy, nil).WithClock(func() time.Time { return now })
}

func TestDailyForUserDisabledPreferences(t *testing.T) {
	prefs := &fakePrefRepo{prefs: &domain.Preferences{UserID: "u1", SuggestionsEnabled: false}}
	svc := newTestService(&fakeHistoryRepo{}, prefs, tuesdayMorning)

	got, err := svc.DailyForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("DailyForUser: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("disabled preferences still produced %d suggestions", len(got))
	}
}

func TestDailyForUserLoadsCompletedHistory(t *testing.T) {
	tasks := &fakeHistoryRepo{}
	svc := newTestService(tasks, &fakePrefRepo{}, tuesdayMorning)

	got, err := svc.DailyForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("DailyForUser: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("suggestions = %d, want 3", len(got))
	}
	if tasks.filter.Status != domain.StatusCompleted {
		t.Errorf("history filter status = %q, want completed", tasks.filter.Status)
	}
}
