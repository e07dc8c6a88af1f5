package cache

import (
	"context"
	"time"
)

// TokenDenylist records revoked bearer token IDs until they would have expired.
type TokenDenylist interface {
	// Revoke marks jti as revoked. A zero ttl keeps the entry forever.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// IsRevoked reports whether jti has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
