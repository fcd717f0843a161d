package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker tracks revoked token ids in Redis until their natural expiry, so
// logout invalidates a copied token before its 8-hour window closes.
type Revoker struct {
	client *redis.Client
}

// NewRevoker creates a revocation list over a redis client. A nil client
// yields a no-op revoker (dev without Redis); revocation then degrades to
// expiry-only sessions.
func NewRevoker(client *redis.Client) *Revoker {
	return &Revoker{client: client}
}

// Revoke denylists a token id for its remaining lifetime.
func (r *Revoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if r == nil || r.client == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, "attendhub:revoked:"+tokenID, "1", ttl).Err()
}

// Revoked reports whether a token id has been revoked. Redis errors count
// as not revoked so an outage never locks everyone out.
func (r *Revoker) Revoked(ctx context.Context, tokenID string) bool {
	if r == nil || r.client == nil || tokenID == "" {
		return false
	}
	n, err := r.client.Exists(ctx, "attendhub:revoked:"+tokenID).Result()
	return err == nil && n > 0
}
