package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// errStoreDisabled is returned by HealthCheck when no Redis store is in use.
var errStoreDisabled = errors.New("shared rate limit store disabled")

const (
	storeDialTimeout = 5 * time.Second
	storeIOTimeout   = 3 * time.Second
	storePoolSize    = 10
)

// RedisClient is the optional store that lets every replica share one
// assessment quota per client IP. When it is disabled, limits are kept
// per replica in memory.
type RedisClient struct {
	client *redis.Client
	addr   string
	db     int
}

// NewRedisClient connects to the shared store. An empty addr disables it
// without error. An unreachable store is returned disabled together with
// the ping error, so callers can warn and carry on.
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	if addr == "" {
		slog.Info("No shared rate limit store configured, assessment quotas are per replica")
		return &RedisClient{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   -1, // a slow store must not stall assessments
		DialTimeout:  storeDialTimeout,
		ReadTimeout:  storeIOTimeout,
		WriteTimeout: storeIOTimeout,
		PoolSize:     storePoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), storeDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return &RedisClient{addr: addr, db: db}, fmt.Errorf("rate limit store %s unreachable: %w", addr, err)
	}

	slog.Info("Shared rate limit store connected", "addr", addr, "db", db)
	return &RedisClient{client: client, addr: addr, db: db}, nil
}

// Client returns the connected go-redis client, or nil when disabled.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

// IsEnabled reports whether quotas are kept in Redis.
func (r *RedisClient) IsEnabled() bool {
	return r != nil && r.client != nil
}

// HealthCheck pings the store.
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if !r.IsEnabled() {
		return errStoreDisabled
	}
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *RedisClient) Close() error {
	if !r.IsEnabled() {
		return nil
	}
	return r.client.Close()
}

// PoolStats summarises the connection pool for /stats.
func (r *RedisClient) PoolStats() map[string]interface{} {
	if !r.IsEnabled() {
		return map[string]interface{}{"enabled": false}
	}

	pool := r.client.PoolStats()
	return map[string]interface{}{
		"enabled":     true,
		"addr":        r.addr,
		"db":          r.db,
		"total_conns": pool.TotalConns,
		"idle_conns":  pool.IdleConns,
		"timeouts":    pool.Timeouts,
	}
}
