package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/repository"
	"github.com/nestly/backend/usecase"
)

type UseCase struct {
	users  repository.UserRepository
	prefs  repository.PreferenceRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
}

func New(users repository.UserRepository, prefs repository.PreferenceRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		prefs:  prefs,
		buffer: buffer,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

func (uc *UseCase) UpdateProfile(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := uc.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UseCase) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	return uc.prefs.Get(ctx, userID)
}

// UpdatePreferences validates tracked categories and persists the settings,
// falling back to the offline buffer when the store is down.
func (uc *UseCase) UpdatePreferences(ctx context.Context, prefs *domain.Preferences) (*domain.Preferences, error) {
	if prefs == nil || prefs.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	for _, category := range prefs.TrackedCategories {
		if !category.Valid() {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "unknown tracked category", nil)
		}
	}

	if err := uc.prefs.Upsert(ctx, prefs); err != nil {
		if uc.buffer != nil && domain.IsDomainError(err, domain.ErrCodeUnavailable) {
			if bufErr := uc.buffer.BufferPreferences(ctx, prefs); bufErr == nil {
				uc.logger.Warn("preferences update buffered", zap.String("user_id", prefs.UserID))
				return prefs, nil
			}
		}
		return nil, err
	}
	return prefs, nil
}
