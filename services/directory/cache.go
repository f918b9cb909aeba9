package directory

import (
	"context"
	"encoding/json"
	"time"

	"slotfinder/models"
	"slotfinder/utils"

	"github.com/go-redis/redis/v8"
)

// RosterCache holds the last fetched roster. Get only returns unexpired
// snapshots; Stale returns whatever was stored last.
type RosterCache interface {
	Get(ctx context.Context) ([]models.Provider, bool)
	Stale(ctx context.Context) ([]models.Provider, bool)
	Set(ctx context.Context, roster []models.Provider, ttl time.Duration) error
}

// MemoryRosterCache keeps the roster in process.
type MemoryRosterCache struct {
	entry *utils.Expiring[[]models.Provider]
}

func NewMemoryRosterCache() *MemoryRosterCache {
	return &MemoryRosterCache{entry: utils.NewExpiring[[]models.Provider]()}
}

func (m *MemoryRosterCache) Get(_ context.Context) ([]models.Provider, bool) {
	return m.entry.Get()
}

func (m *MemoryRosterCache) Stale(_ context.Context) ([]models.Provider, bool) {
	return m.entry.Stale()
}

func (m *MemoryRosterCache) Set(_ context.Context, roster []models.Provider, ttl time.Duration) error {
	m.entry.Set(roster, ttl)
	return nil
}

const (
	rosterPrefix   = "roster:"
	staleSuffix    = ":stale"
	staleRetention = 24 * time.Hour
)

// RedisRosterCache shares the roster between instances.
type RedisRosterCache struct {
	client *redis.Client
	key    string
}

func NewRedisRosterCache(client *redis.Client, locationID string) *RedisRosterCache {
	return &RedisRosterCache{client: client, key: rosterPrefix + locationID}
}

func (s *RedisRosterCache) read(ctx context.Context, key string) ([]models.Provider, bool) {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var roster []models.Provider
	if err := json.Unmarshal([]byte(data), &roster); err != nil {
		return nil, false
	}
	return roster, true
}

func (s *RedisRosterCache) Get(ctx context.Context) ([]models.Provider, bool) {
	return s.read(ctx, s.key)
}

func (s *RedisRosterCache) Stale(ctx context.Context) ([]models.Provider, bool) {
	return s.read(ctx, s.key+staleSuffix)
}

func (s *RedisRosterCache) Set(ctx context.Context, roster []models.Provider, ttl time.Duration) error {
	b, err := json.Marshal(roster)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key, b, ttl)
	pipe.Set(ctx, s.key+staleSuffix, b, staleRetention)
	_, err = pipe.Exec(ctx)
	return err
}
