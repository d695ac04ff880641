package views

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/pkg/retry"
	"github.com/nestly/backend/repository"
)

// Dashboard bundles every derived view for one user.
type Dashboard struct {
	Active       []domain.Task `json:"active"`
	Completed    []domain.Task `json:"completed"`
	Projects     []domain.Task `json:"projects"`
	PastPromises []domain.Task `json:"past_promises"`
}

// Service loads a user's records once and derives all views from that single
// read.
type Service struct {
	tasks  repository.TaskRepository
	cfg    Config
	policy retry.Policy
	logger *zap.Logger
	now    func() time.Time
}

func NewService(tasks repository.TaskRepository, cfg Config, policy retry.Policy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tasks:  tasks,
		cfg:    cfg.normalize(),
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

func retryable(err error) bool {
	return domain.IsDomainError(err, domain.ErrCodeUnavailable)
}

// loadBatchSize matches the repository's per-query row cap. Reads page through
// the full record set so views built on old rows, past promises especially,
// never lose eligible tasks behind the cap.
const loadBatchSize = 500

func (s *Service) load(ctx context.Context, userID string) ([]domain.Task, error) {
	var records []domain.Task
	for offset := 0; ; offset += loadBatchSize {
		var batch []domain.Task
		err := retry.Do(ctx, s.policy, retryable, func(ctx context.Context) error {
			var err error
			batch, err = s.tasks.ListByUser(ctx, userID, repository.TaskFilter{
				Limit:  loadBatchSize,
				Offset: offset,
			})
			return err
		})
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)
		if len(batch) < loadBatchSize {
			break
		}
	}
	return Visible(records), nil
}

// ActiveTasks derives the active view.
func (s *Service) ActiveTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	records, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Active(records, s.now()), nil
}

// CompletedTasks derives the completed view, optionally capped.
func (s *Service) CompletedTasks(ctx context.Context, userID string, limit int) ([]domain.Task, error) {
	records, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Completed(records, limit), nil
}

// LiveProjects derives the projects view.
func (s *Service) LiveProjects(ctx context.Context, userID string) ([]domain.Task, error) {
	records, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Projects(records), nil
}

// PastPromiseTasks derives the stale-manual-task view.
func (s *Service) PastPromiseTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	records, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return PastPromises(records, s.now(), s.cfg), nil
}

// LoadDashboard derives every view from a single record read.
func (s *Service) LoadDashboard(ctx context.Context, userID string, completedLimit int) (*Dashboard, error) {
	records, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &Dashboard{
		Active:       Active(records, now),
		Completed:    Completed(records, completedLimit),
		Projects:     Projects(records),
		PastPromises: PastPromises(records, now, s.cfg),
	}, nil
}
