package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/timetracker/repository"
)

type revocationRepository struct {
	client *redislib.Client
	prefix string
}

// NewRevocationRepository creates a Redis-backed store of revoked session token ids.
// Keys expire together with the token they shadow.
func NewRevocationRepository(client *redislib.Client) repository.RevocationRepository {
	return &revocationRepository{
		client: client,
		prefix: "revoked:",
	}
}

func (r *revocationRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.key(tokenID), "1", ttl).Err()
}

func (r *revocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *revocationRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}

// noopRevocations is used when no Redis is configured: logout only clears the cookie.
type noopRevocations struct{}

// NewNoopRevocationRepository returns a store that never reports a token as revoked.
func NewNoopRevocationRepository() repository.RevocationRepository {
	return noopRevocations{}
}

func (noopRevocations) Revoke(context.Context, string, time.Duration) error { return nil }

func (noopRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }
