package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"staybot/models"
	"staybot/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// replayWindow bounds how soon a duplicate submit replays the prior
// response instead of re-running the pipeline.
const replayWindow = 2000 * time.Millisecond

// IdempotencyStore keeps the last completed turn per conversation.
type IdempotencyStore interface {
	Get(ctx context.Context, conversationID string) (*models.IdempotencyRecord, error)
	Put(ctx context.Context, conversationID string, rec models.IdempotencyRecord) error
}

// IdempotencyGuard wraps the pipeline with short-window de-duplication.
//
// Known race: two near-simultaneous duplicates can both pass Replay before
// either Record lands; the guard does not serialize turns for one
// conversation.
type IdempotencyGuard struct {
	store  IdempotencyStore
	logger *zap.Logger
	now    func() time.Time
}

func NewIdempotencyGuard(store IdempotencyStore) *IdempotencyGuard {
	return &IdempotencyGuard{
		store:  store,
		logger: utils.GetLogger().Named("idempotency"),
		now:    time.Now,
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize lower-cases and collapses whitespace so trivially re-typed
// duplicates still match.
func (g *IdempotencyGuard) Normalize(message string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(message)), " ")
}

// Replay returns the stored response when the same normalized message
// arrives within the replay window of the prior completion.
func (g *IdempotencyGuard) Replay(ctx context.Context, conversationID, normalized string) (*models.ChatResponse, bool) {
	rec, err := g.store.Get(ctx, conversationID)
	if err != nil {
		g.logger.Warn("idempotency read failed, processing turn anyway", zap.Error(err))
		return nil, false
	}
	if rec == nil || rec.NormalizedMessage != normalized {
		return nil, false
	}
	elapsed := g.now().UnixMilli() - rec.TimestampMs
	if elapsed < 0 || elapsed >= replayWindow.Milliseconds() {
		return nil, false
	}
	resp := rec.Response
	return &resp, true
}

// Record overwrites the conversation's record after every completed turn.
func (g *IdempotencyGuard) Record(ctx context.Context, conversationID, normalized string, resp models.ChatResponse) {
	rec := models.IdempotencyRecord{
		NormalizedMessage: normalized,
		TimestampMs:       g.now().UnixMilli(),
		Response:          resp,
		Category:          resp.Category,
	}
	if err := g.store.Put(ctx, conversationID, rec); err != nil {
		g.logger.Warn("idempotency write failed", zap.Error(err))
	}
}

const idempotencyKeyPrefix = "chat:idem:"

// RedisIdempotencyStore is the production IdempotencyStore. Records expire
// well after the replay window; the TTL only bounds stale keys.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, ttl: 30 * time.Second}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, conversationID string) (*models.IdempotencyRecord, error) {
	data, err := s.client.Get(ctx, idempotencyKeyPrefix+conversationID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency get %q: %w", conversationID, err)
	}
	var rec models.IdempotencyRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("idempotency decode %q: %w", conversationID, err)
	}
	return &rec, nil
}

func (s *RedisIdempotencyStore) Put(ctx context.Context, conversationID string, rec models.IdempotencyRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("idempotency encode %q: %w", conversationID, err)
	}
	if err := s.client.Set(ctx, idempotencyKeyPrefix+conversationID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency put %q: %w", conversationID, err)
	}
	return nil
}
