package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/slip"
	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
	"github.com/redis/go-redis/v9"
)

// RedisWatchlist implements WatchlistStore on Redis, one key per user
type RedisWatchlist struct {
	client *redis.Client
}

// NewRedisWatchlist creates a Redis-backed watchlist
func NewRedisWatchlist(client *redis.Client) *RedisWatchlist {
	return &RedisWatchlist{client: client}
}

func watchlistKey(userKey string) string {
	return fmt.Sprintf("watchlist:%s", userKey)
}

// LoadProps returns the user's saved props; an unknown user has an empty list
func (r *RedisWatchlist) LoadProps(ctx context.Context, userKey string) ([]models.Prop, error) {
	data, err := r.client.Get(ctx, watchlistKey(userKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.Prop{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get watchlist: %w", err)
	}

	return decodeProps(data)
}

// ReplaceProps overwrites the user's saved props
func (r *RedisWatchlist) ReplaceProps(ctx context.Context, userKey string, props []models.Prop) error {
	data, err := encodeProps(props)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, watchlistKey(userKey), data, 0).Err(); err != nil {
		return fmt.Errorf("replace watchlist: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity
func (r *RedisWatchlist) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close is a no-op; the shared client is closed by its owner
func (r *RedisWatchlist) Close() error {
	return nil
}

// maxUpdateAttempts bounds optimistic retries of a slip update
const maxUpdateAttempts = 10

// RedisSlipStore keeps slip sessions in Redis with a sliding TTL
type RedisSlipStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlipStore creates a slip session store
func NewRedisSlipStore(client *redis.Client, ttl time.Duration) *RedisSlipStore {
	return &RedisSlipStore{
		client: client,
		ttl:    ttl,
	}
}

func slipKey(slipID string) string {
	return fmt.Sprintf("slip:%s", slipID)
}

// Load retrieves a slip session
func (r *RedisSlipStore) Load(ctx context.Context, slipID string) (*slip.Slip, error) {
	data, err := r.client.Get(ctx, slipKey(slipID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("slip %s: %w", slipID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get slip: %w", err)
	}

	return decodeSlip(data)
}

// Update runs fn against the stored slip inside a WATCH/MULTI transaction.
// The transaction is retried when another writer changes the slip first.
func (r *RedisSlipStore) Update(ctx context.Context, slipID string, fn func(s *slip.Slip) error) (*slip.Slip, error) {
	key := slipKey(slipID)
	var updated *slip.Slip

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("slip %s: %w", slipID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get slip: %w", err)
		}

		s, err := decodeSlip(data)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}

		out, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshaling slip: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = s
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("slip %s: %w", slipID, ErrConflict)
}

func decodeSlip(data []byte) (*slip.Slip, error) {
	var s slip.Slip
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshaling slip: %w", err)
	}
	if s.Picks == nil {
		s.Picks = []models.Selection{}
	}
	return &s, nil
}

// Save stores a slip session and refreshes its TTL
func (r *RedisSlipStore) Save(ctx context.Context, s *slip.Slip) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling slip: %w", err)
	}

	if err := r.client.Set(ctx, slipKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save slip: %w", err)
	}
	return nil
}

// Delete removes a slip session
func (r *RedisSlipStore) Delete(ctx context.Context, slipID string) error {
	deleted, err := r.client.Del(ctx, slipKey(slipID)).Result()
	if err != nil {
		return fmt.Errorf("delete slip: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("slip %s: %w", slipID, ErrNotFound)
	}
	return nil
}
