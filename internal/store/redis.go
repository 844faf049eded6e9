package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vivantaneja/Scoresheet-Analyser/pkg/models"
)

// RedisRepository stores match records as JSON values in Redis, one key
// per match ID. Records never expire; the current match is long-lived
// state, not a cache entry.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository wraps an existing Redis client.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func recordKey(matchID string) string {
	return fmt.Sprintf("match:%s:record", matchID)
}

// Load reads the stored record, self-healing a missing or undecodable
// key to the persisted default record.
func (r *RedisRepository) Load(ctx context.Context, matchID string) (*models.MatchRecord, error) {
	data, err := r.client.Get(ctx, recordKey(matchID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return r.heal(ctx, matchID)
		}
		return nil, fmt.Errorf("reading record: %w", err)
	}

	var rec models.MatchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return r.heal(ctx, matchID)
	}
	return &rec, nil
}

// Save writes the whole record, replacing any previous value.
func (r *RedisRepository) Save(ctx context.Context, matchID string, rec *models.MatchRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	if err := r.client.Set(ctx, recordKey(matchID), data, 0).Err(); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) heal(ctx context.Context, matchID string) (*models.MatchRecord, error) {
	rec := models.DefaultMatchRecord()
	if err := r.Save(ctx, matchID, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
