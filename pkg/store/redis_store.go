// hab/pkg/store/redis_store.go

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"smarthab/hab/pkg/logging"
)

var ctx = context.Background()

const (
	keyPrefix     = "hab:device:"
	updateChannel = "hab_updates"
)

// RedisStore mirrors every device write to Redis for external
// dashboards and monitors. Reads are served from the in-memory store;
// nothing is ever loaded back from Redis, so the in-process state
// remains the single source of truth.
type RedisStore struct {
	mem    *MemoryStore
	client *redis.Client
}

// NewRedisStore connects to Redis and wraps the given memory store.
func NewRedisStore(mem *MemoryStore, addr, password string, db int) (*RedisStore, error) {
	logging.Logger.Info().Str("addr", addr).Int("db", db).Msg("Connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, logging.NewError(logging.ErrorTypeStore,
			"failed to connect to Redis", err,
			map[string]interface{}{"addr": addr, "db": db})
	}

	logging.Logger.Info().Msg("Successfully connected to Redis")
	return &RedisStore{mem: mem, client: client}, nil
}

func (s *RedisStore) GetDevice(key string) (interface{}, bool) {
	return s.mem.GetDevice(key)
}

func (s *RedisStore) Snapshot() []DeviceEntry {
	return s.mem.Snapshot()
}

// SetDevice writes through to the memory store, then mirrors the value
// to Redis and publishes a key=value update for subscribers. Mirror
// failures are logged but do not fail the write; device state must
// stay usable without Redis.
func (s *RedisStore) SetDevice(key string, value interface{}) error {
	if err := s.mem.SetDevice(key, value); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		logging.Logger.Error().Err(err).Str("key", key).Interface("value", value).Msg("Failed to marshal device value")
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+key, data, 0).Err(); err != nil {
		logging.Logger.Error().Err(err).Str("key", key).Msg("Failed to mirror device value to Redis")
		return nil
	}
	if err := s.client.Publish(ctx, updateChannel, fmt.Sprintf("%s=%s", key, string(data))).Err(); err != nil {
		logging.Logger.Error().Err(err).Str("key", key).Msg("Failed to publish device update")
		return nil
	}
	logging.Logger.Debug().Str("key", key).Str("data", string(data)).Msg("Mirrored device value to Redis")
	return nil
}

// Subscribe returns a subscription to the device update channel.
func (s *RedisStore) Subscribe() *redis.PubSub {
	return s.client.Subscribe(ctx, updateChannel)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
