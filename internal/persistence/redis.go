package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/msp-dashboard/internal/config"
)

const revokedSessionPrefix = "session:revoked:"

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errNotConfigured("redis")
	}
	return r.Client.Ping(ctx).Err()
}

// RevokeSession denylists a session token id until it would have expired.
func (r *Redis) RevokeSession(ctx context.Context, tokenID string, until time.Time) error {
	if r == nil || r.Client == nil {
		return errNotConfigured("redis")
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.Client.Set(ctx, revokedSessionPrefix+tokenID, 1, ttl).Err()
}

// IsSessionRevoked reports whether tokenID was logged out.
func (r *Redis) IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r == nil || r.Client == nil {
		return false, errNotConfigured("redis")
	}
	err := r.Client.Get(ctx, revokedSessionPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func errNotConfigured(what string) error {
	return fmt.Errorf("%s client not configured", what)
}
