package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/repository"
)

type preferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepository creates a Postgres-backed PreferenceRepository.
func NewPreferenceRepository(pool *pgxpool.Pool) repository.PreferenceRepository {
	return &preferenceRepository{pool: pool}
}

func (r *preferenceRepository) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	const query = `
	SELECT user_id, suggestions_enabled, tracked_categories, created_at, updated_at
	FROM preferences
	WHERE user_id = $1
	`
	row := r.pool.QueryRow(ctx, query, userID)

	var prefs domain.Preferences
	var tracked []byte

	if err := row.Scan(&prefs.UserID, &prefs.SuggestionsEnabled, &tracked, &prefs.CreatedAt, &prefs.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultPreferences(userID), nil
		}
		return nil, classify(err)
	}

	if len(tracked) > 0 {
		_ = json.Unmarshal(tracked, &prefs.TrackedCategories)
	}

	return &prefs, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, prefs *domain.Preferences) error {
	if prefs == nil || prefs.UserID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO preferences (user_id, suggestions_enabled, tracked_categories, created_at, updated_at)
	VALUES ($1, $2, $3, COALESCE($4, NOW()), NOW())
	ON CONFLICT (user_id) DO UPDATE
	SET suggestions_enabled = EXCLUDED.suggestions_enabled,
		tracked_categories = EXCLUDED.tracked_categories,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`

	tracked, err := json.Marshal(prefs.TrackedCategories)
	if err != nil {
		return err
	}

	if err := r.pool.QueryRow(ctx, query,
		prefs.UserID,
		prefs.SuggestionsEnabled,
		tracked,
		nullTime(prefs.CreatedAt),
	).Scan(&prefs.CreatedAt, &prefs.UpdatedAt); err != nil {
		return classify(err)
	}

	return nil
}
