package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis holds the shared client used by the queue, the token denylist, and
// the health endpoint. The service degrades without it (in-memory queue,
// expiry-only sessions), so connection problems surface at call sites, not
// here.
type Redis struct {
	Client *redis.Client
}

const (
	redisDialTimeout = 2 * time.Second
	redisOpTimeout   = time.Second
	healthTimeout    = time.Second
)

// NewRedis builds a client for addr. No ping: callers that need liveness
// use Healthy.
func NewRedis(addr string) *Redis {
	return &Redis{Client: redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisOpTimeout,
		WriteTimeout: redisOpTimeout,
		PoolSize:     10,
	})}
}

// Healthy pings with its own short deadline so a hung Redis cannot stall
// the health endpoint.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	return r.Client.Ping(ctx).Err() == nil
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
