package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// retryPolicy returns the startup connect backoff: 500ms growing 1.5x, capped at 5s per wait
func retryPolicy(ctx context.Context, maxElapsed time.Duration) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.Multiplier = 1.5
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxElapsed
	return backoff.WithContext(b, ctx)
}

// withRetry runs op until it succeeds or the backoff gives up
func withRetry(ctx context.Context, name string, maxElapsed time.Duration, op func() error) error {
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("target", name).Dur("retry_in", wait).Msg("connect failed, retrying")
	}
	if err := backoff.RetryNotify(op, retryPolicy(ctx, maxElapsed), notify); err != nil {
		return fmt.Errorf("connect %s: %w", name, err)
	}
	return nil
}

// redisOptions accepts either a redis:// URL or a host:port address
func redisOptions(addr, password string, db int) (*redis.Options, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if password != "" {
			opts.Password = password
		}
		return opts, nil
	}

	return &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}, nil
}

// ConnectRedis opens a Redis client and waits until it answers PING
func ConnectRedis(ctx context.Context, addr, password string, db int, maxElapsed time.Duration) (*redis.Client, error) {
	opts, err := redisOptions(addr, password, db)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	err = withRetry(ctx, "redis", maxElapsed, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Err()
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// ConnectPostgres opens the watchlist database, waits for it, and applies the schema
func ConnectPostgres(ctx context.Context, dsn string, maxElapsed time.Duration) (*PostgresWatchlist, error) {
	watchlist, err := NewPostgresWatchlist(dsn)
	if err != nil {
		return nil, err
	}

	err = withRetry(ctx, "postgres", maxElapsed, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return watchlist.Ping(pingCtx)
	})
	if err != nil {
		watchlist.Close()
		return nil, err
	}

	if err := watchlist.Migrate(ctx); err != nil {
		watchlist.Close()
		return nil, err
	}

	return watchlist, nil
}
