package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/tiendamasiva/storefront-service/internal/config"
	"github.com/tiendamasiva/storefront-service/internal/models"
)

const sessionKeyPrefix = "session:"

// RedisStore keeps session state in Redis as JSON blobs with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Entry
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(cfg config.RedisConfig, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "session-store"),
	}
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get loads session state. Missing or expired ids return ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, id string) (*State, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.WithError(err).Error("session get failed")
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Cart == nil {
		state.Cart = []models.CartItem{}
	}
	return &state, nil
}

// Save stores session state and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, id string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+id, data, s.ttl).Err(); err != nil {
		s.logger.WithError(err).Error("session save failed")
		return err
	}
	return nil
}

// Delete destroys a session. Deleting an unknown id is not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
