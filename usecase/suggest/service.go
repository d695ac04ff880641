package suggest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/pkg/retry"
	"github.com/nestly/backend/repository"
)

// Service loads history and preferences from the store and runs the engine.
type Service struct {
	engine *Engine
	tasks  repository.TaskRepository
	prefs  repository.PreferenceRepository
	policy retry.Policy
	logger *zap.Logger
	now    func() time.Time
}

func NewService(engine *Engine, tasks repository.TaskRepository, prefs repository.PreferenceRepository, policy retry.Policy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine: engine,
		tasks:  tasks,
		prefs:  prefs,
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

// DailyForUser computes today's suggestions for the user. Disabled
// preferences short-circuit to an empty slate.
func (s *Service) DailyForUser(ctx context.Context, userID string) ([]Suggestion, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs != nil && !prefs.SuggestionsEnabled {
		return nil, nil
	}

	var history []domain.Task
	err = retry.Do(ctx, s.policy, retryable, func(ctx context.Context) error {
		var err error
		history, err = s.tasks.ListByUser(ctx, userID, repository.TaskFilter{
			Status: domain.StatusCompleted,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.engine.Daily(history, prefs, s.now()), nil
}
