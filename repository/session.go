package repository

import (
	"context"
	"time"
)

// RevocationRepository remembers session tokens that were invalidated before expiry.
type RevocationRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
