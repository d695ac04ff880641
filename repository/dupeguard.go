package repository

import (
	"context"
	"time"
)

// DuplicateGuard reserves a creation fingerprint so two near-simultaneous
// creates of the same title cannot both slip past the store window query.
// Reserve returns false when the fingerprint is already held.
type DuplicateGuard interface {
	Reserve(ctx context.Context, userID, normalizedTitle string, now time.Time) (bool, error)
	Release(ctx context.Context, userID, normalizedTitle string, now time.Time) error
}
