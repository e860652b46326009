package db

import (
	"context"
	"crypto/tls"
	"errors"

	"phoneinput_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the Redis instance holding field sessions.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// RedisAdapter exposes a Redis client as a health checker.
type RedisAdapter struct {
	client *redis.Client
}

// NewRedisAdapter wraps a client for readiness checks.
func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

// Ping checks that Redis is reachable.
func (a *RedisAdapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

// Checker is anything that can report readiness.
type Checker interface {
	Ping(ctx context.Context) error
}

// Checks combines several checkers; all of them must pass.
type Checks []Checker

// Ping runs every check and joins the failures.
func (c Checks) Ping(ctx context.Context) error {
	var errs []error
	for _, check := range c {
		if err := check.Ping(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
