package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/repository"
)

type duplicateGuard struct {
	client *redislib.Client
	window time.Duration
}

// NewDuplicateGuard creates a Redis-backed creation fingerprint. The key is
// derived from user, normalized title and the hour bucket, so the reservation
// is a single conditional write instead of a read-then-write.
func NewDuplicateGuard(client *redislib.Client, window time.Duration) repository.DuplicateGuard {
	if window <= 0 {
		window = time.Hour
	}
	return &duplicateGuard{
		client: client,
		window: window,
	}
}

func (g *duplicateGuard) Reserve(ctx context.Context, userID, normalizedTitle string, now time.Time) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(userID, normalizedTitle, now), 1, g.window).Result()
	if err != nil {
		return false, domain.WrapError(domain.ErrCodeUnavailable, "duplicate guard unavailable", err)
	}
	return ok, nil
}

func (g *duplicateGuard) Release(ctx context.Context, userID, normalizedTitle string, now time.Time) error {
	return g.client.Del(ctx, g.key(userID, normalizedTitle, now)).Err()
}

func (g *duplicateGuard) key(userID, normalizedTitle string, now time.Time) string {
	sum := sha256.Sum256([]byte(strings.ToLower(normalizedTitle)))
	bucket := now.UTC().Truncate(g.window).Unix()
	return fmt.Sprintf("dupe:%s:%s:%d", userID, hex.EncodeToString(sum[:8]), bucket)
}
