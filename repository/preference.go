package repository

import (
	"context"

	"github.com/nestly/backend/domain"
)

// PreferenceRepository stores per-user suggestion preferences.
type PreferenceRepository interface {
	Get(ctx context.Context, userID string) (*domain.Preferences, error)
	Upsert(ctx context.Context, prefs *domain.Preferences) error
}
