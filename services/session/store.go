// Package session persists partial reservation state between turns.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"staybot/models"
	"staybot/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	sessionKeyPrefix = "chat:session:"
	// Sessions expire after an hour of inactivity.
	sessionTTL = time.Hour

	lockStripes = 64
)

// Key identifies one conversation's memory.
type Key struct {
	LodgingID      string
	UserID         string
	ConversationID string
}

func (k Key) String() string {
	return fmt.Sprintf("%s%s:%s:%s", sessionKeyPrefix, k.LodgingID, k.UserID, k.ConversationID)
}

// Store reads and merge-writes session memory.
type Store interface {
	Get(ctx context.Context, key Key) (*models.SessionMemory, error)
	// Merge folds the non-empty fields of partial into the stored memory.
	// Writers for the same key are serialized; prior fields are never
	// dropped wholesale.
	Merge(ctx context.Context, key Key, partial models.SessionMemory) error
	Clear(ctx context.Context, key Key) error
}

// RedisStore is the production Store. A striped mutex set serializes
// concurrent merge writers per conversation key.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
	locks  [lockStripes]sync.Mutex
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		logger: utils.GetLogger().Named("session"),
	}
}

func (s *RedisStore) lockFor(key Key) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key.String()))
	return &s.locks[h.Sum32()%lockStripes]
}

func (s *RedisStore) Get(ctx context.Context, key Key) (*models.SessionMemory, error) {
	data, err := s.client.Get(ctx, key.String()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get %q: %w", key.String(), err)
	}
	var mem models.SessionMemory
	if err := json.Unmarshal([]byte(data), &mem); err != nil {
		return nil, fmt.Errorf("session decode %q: %w", key.String(), err)
	}
	return &mem, nil
}

func (s *RedisStore) Merge(ctx context.Context, key Key, partial models.SessionMemory) error {
	mu := s.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	current, err := s.Get(ctx, key)
	if err != nil {
		s.logger.Warn("merge reading prior session failed, starting fresh", zap.Error(err))
		current = nil
	}
	if current == nil {
		current = &models.SessionMemory{}
	}
	current.Merge(partial)

	data, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("session encode %q: %w", key.String(), err)
	}
	if err := s.client.Set(ctx, key.String(), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("session put %q: %w", key.String(), err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, key Key) error {
	return s.client.Del(ctx, key.String()).Err()
}
