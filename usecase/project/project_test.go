package project

import (
	"context"
	"testing"
	"time"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/pkg/retry"
	"github.com/nestly/backend/repository"
)

// fakeRepo backs the tests with a single mutable record.
type fakeRepo struct {
	task      *domain.Task
	updateErr error
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if f.task == nil || f.task.ID != id {
		return nil, domain.ErrTaskNotFound
	}
	copied := *f.task
	return &copied, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, patch repository.TaskPatch) (*domain.Task, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.task == nil || f.task.ID != id {
		return nil, domain.ErrTaskNotFound
	}
	if patch.IsProject != nil {
		f.task.IsProject = *patch.IsProject
	}
	if patch.Subtasks != nil {
		f.task.Subtasks = *patch.Subtasks
	}
	if patch.Progress != nil {
		f.task.Progress = *patch.Progress
	}
	copied := *f.task
	return &copied, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID string, filter repository.TaskFilter) ([]domain.Task, error) {
	return nil, nil
}

func (f *fakeRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	return task, nil
}

func (f *fakeRepo) BatchUpdate(ctx context.Context, ids []string, patch repository.TaskPatch) error {
	return nil
}

func (f *fakeRepo) DeletePermanently(ctx context.Context, id string) error {
	return nil
}

func (f *fakeRepo) CountRecentByTitle(ctx context.Context, userID, title string, since time.Time) (int, error) {
	return 0, nil
}

var _ repository.TaskRepository = (*fakeRepo)(nil)

func fastRetry() retry.Policy {
	return retry.Policy{Attempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func newTestUseCase(repo *fakeRepo, now time.Time) *UseCase {
	return New(repo, nil, fastRetry()).WithClock(func() time.Time { return now })
}

func plainTask() *domain.Task {
	return &domain.Task{
		ID:     "t1",
		UserID: "u1",
		Title:  "Nursery",
		Status: domain.StatusActive,
		Source: domain.SourceManual,
	}
}

func TestConvertAssignsSequentialIDs(t *testing.T) {
	repo := &fakeRepo{task: plainTask()}
	uc := newTestUseCase(repo, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	project, err := uc.Convert(context.Background(), "t1", []SubtaskInput{
		{Title: "Paint walls"},
		{Title: " Assemble crib "},
		{Title: "Hang shelves"},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !project.IsProject {
		t.Error("IsProject not set")
	}
	if len(project.Subtasks) != 3 {
		t.Fatalf("subtasks = %d, want 3", len(project.Subtasks))
	}
	for i, st := range project.Subtasks {
		if st.ID != i+1 {
			t.Errorf("subtask %d has ID %d", i, st.ID)
		}
		if st.Completed || st.CompletedAt != nil {
			t.Errorf("subtask %d not fresh", i)
		}
	}
	if project.Subtasks[1].Title != "Assemble crib" {
		t.Errorf("title not trimmed: %q", project.Subtasks[1].Title)
	}
	if project.Progress != 0 {
		t.Errorf("progress = %d, want 0", project.Progress)
	}
}

func TestConvertWithNoSubtasks(t *testing.T) {
	repo := &fakeRepo{task: plainTask()}
	uc := newTestUseCase(repo, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	project, err := uc.Convert(context.Background(), "t1", nil)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !project.IsProject || len(project.Subtasks) != 0 || project.Progress != 0 {
		t.Errorf("empty project malformed: %+v", project)
	}
}

func TestConvertRejections(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	alreadyProject := plainTask()
	alreadyProject.IsProject = true
	uc := newTestUseCase(&fakeRepo{task: alreadyProject}, now)
	if _, err := uc.Convert(context.Background(), "t1", nil); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("double convert: err = %v, want INVALID", err)
	}

	archived := plainTask()
	archived.Status = domain.StatusArchived
	uc = newTestUseCase(&fakeRepo{task: archived}, now)
	if _, err := uc.Convert(context.Background(), "t1", nil); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("archived convert: err = %v, want INVALID", err)
	}

	uc = newTestUseCase(&fakeRepo{task: plainTask()}, now)
	if _, err := uc.Convert(context.Background(), "t1", []SubtaskInput{{Title: "  "}}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("blank subtask title: err = %v, want INVALID", err)
	}

	uc = newTestUseCase(&fakeRepo{}, now)
	if _, err := uc.Convert(context.Background(), "missing", nil); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("missing task: err = %v, want NOT_FOUND", err)
	}
}

func TestAddSubtaskUsesNextSequentialID(t *testing.T) {
	project := plainTask()
	project.IsProject = true
	project.Subtasks = []domain.Subtask{
		{ID: 1, Title: "Paint walls", Completed: true},
		{ID: 2, Title: "Assemble crib"},
	}
	repo := &fakeRepo{task: project}
	uc := newTestUseCase(repo, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	updated, err := uc.AddSubtask(context.Background(), "t1", SubtaskInput{Title: "Hang shelves"})
	if err != nil {
		t.Fatalf("AddSubtask: %v", err)
	}
	if len(updated.Subtasks) != 3 || updated.Subtasks[2].ID != 3 {
		t.Fatalf("subtasks after add: %+v", updated.Subtasks)
	}
	// 1 of 3 done.
	if updated.Progress != 33 {
		t.Errorf("progress = %d, want 33", updated.Progress)
	}
}

func TestAddSubtaskRejectsPlainTask(t *testing.T) {
	repo := &fakeRepo{task: plainTask()}
	uc := newTestUseCase(repo, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	if _, err := uc.AddSubtask(context.Background(), "t1", SubtaskInput{Title: "Step"}); !domain.IsDomainError(err, domain.ErrCodeNotAProject) {
		t.Fatalf("err = %v, want NOT_A_PROJECT", err)
	}
}

func TestUpdateSubtaskCompletionStampsAndProgress(t *testing.T) {
	project := plainTask()
	project.IsProject = true
	project.Subtasks = []domain.Subtask{
		{ID: 1, Title: "Paint walls"},
		{ID: 2, Title: "Assemble crib"},
	}
	repo := &fakeRepo{task: project}
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	uc := newTestUseCase(repo, now)

	done := true
	updated, err := uc.UpdateSubtask(context.Background(), "t1", 1, SubtaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("UpdateSubtask: %v", err)
	}
	st := updated.FindSubtask(1)
	if st == nil || !st.Completed {
		t.Fatal("subtask not completed")
	}
	if st.CompletedAt == nil || !st.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", st.CompletedAt, now)
	}
	if updated.Progress != 50 {
		t.Errorf("progress = %d, want 50", updated.Progress)
	}

	// Completing an already-completed subtask changes nothing.
	again, err := uc.UpdateSubtask(context.Background(), "t1", 1, SubtaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("repeat UpdateSubtask: %v", err)
	}
	if again.Progress != 50 || !again.FindSubtask(1).CompletedAt.Equal(now) {
		t.Error("repeated completion was not idempotent")
	}

	undone := false
	reverted, err := uc.UpdateSubtask(context.Background(), "t1", 1, SubtaskPatch{Completed: &undone})
	if err != nil {
		t.Fatalf("UpdateSubtask: %v", err)
	}
	if st := reverted.FindSubtask(1); st.Completed || st.CompletedAt != nil {
		t.Error("uncompleting did not clear the stamp")
	}
	if reverted.Progress != 0 {
		t.Errorf("progress = %d, want 0", reverted.Progress)
	}
}

func TestUpdateSubtaskTitle(t *testing.T) {
	project := plainTask()
	project.IsProject = true
	project.Subtasks = []domain.Subtask{{ID: 1, Title: "Paint walls"}}
	repo := &fakeRepo{task: project}
	uc := newTestUseCase(repo, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	title := " Paint the ceiling "
	updated, err := uc.UpdateSubtask(context.Background(), "t1", 1, SubtaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateSubtask: %v", err)
	}
	if got := updated.FindSubtask(1).Title; got != "Paint the ceiling" {
		t.Errorf("title = %q", got)
	}

	blank := "  "
	if _, err := uc.UpdateSubtask(context.Background(), "t1", 1, SubtaskPatch{Title: &blank}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("blank title: err = %v, want INVALID", err)
	}
}

func TestUpdateSubtaskUnknownID(t *testing.T) {
	project := plainTask()
	project.IsProject = true
	project.Subtasks = []domain.Subtask{{ID: 1, Title: "Paint walls"}}
	repo := &fakeRepo{task: project}
	uc := newTestUseCase(repo, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	done := true
	if _, err := uc.UpdateSubtask(context.Background(), "t1", 99, SubtaskPatch{Completed: &done}); !domain.IsDomainError(err, domain.ErrCodeSubtaskNotFound) {
		t.Fatalf("err = %v, want SUBTASK_NOT_FOUND", err)
	}
}
