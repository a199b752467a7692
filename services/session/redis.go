package session

import (
	"context"
	"encoding/json"
	"time"

	"voicedesk/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const sessionPrefix = "convSession:"

// RedisStore is the durable Store backed by Redis with per-key TTL.
// When Redis is unreachable it transparently serves reads and writes from
// an in-process fallback and logs a degraded-mode event; callers never see
// a backend failure they could mistake for "no session exists".
type RedisStore struct {
	client   *redis.Client
	fallback *MemoryStore
	ttl      time.Duration
	defDur   int
	logger   *zap.Logger
}

// NewRedisStore creates a session store on the given Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration, defaultDurationMin int, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client:   client,
		fallback: NewMemoryStore(ttl, defaultDurationMin),
		ttl:      ttl,
		defDur:   defaultDurationMin,
		logger:   logger,
	}
}

// Fallback exposes the in-process fallback store for periodic sweeping.
func (s *RedisStore) Fallback() *MemoryStore {
	return s.fallback
}

// Get returns the session for callID, creating a fresh one when absent.
func (s *RedisStore) Get(ctx context.Context, callID string) (*models.ConversationSession, error) {
	data, err := s.client.Get(ctx, sessionPrefix+callID).Result()
	if err == redis.Nil {
		// A turn written during a degraded window may only exist in the
		// fallback; it creates a fresh session when truly absent.
		return s.fallback.Get(ctx, callID)
	}
	if err != nil {
		s.logger.Warn("session store degraded, reading from in-process fallback",
			zap.String("callId", callID), zap.Error(err))
		return s.fallback.Get(ctx, callID)
	}

	var sess models.ConversationSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		s.logger.Error("corrupt session record, starting call over",
			zap.String("callId", callID), zap.Error(err))
		return models.NewConversationSession(callID, int(s.ttl.Seconds()), s.defDur), nil
	}
	return &sess, nil
}

// Save persists the session and refreshes its TTL. The whole record is
// written in a single SET so a concurrent retried write cannot leave a
// half-updated session behind.
func (s *RedisStore) Save(ctx context.Context, sess *models.ConversationSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionPrefix+sess.CallID, data, s.ttl).Err(); err != nil {
		s.logger.Warn("session store degraded, writing to in-process fallback",
			zap.String("callId", sess.CallID), zap.Error(err))
		return s.fallback.Save(ctx, sess)
	}
	// Keep the fallback from serving a stale copy after Redis recovers.
	_ = s.fallback.Reset(ctx, sess.CallID)
	return nil
}

// Reset explicitly clears the session for callID in both backends.
func (s *RedisStore) Reset(ctx context.Context, callID string) error {
	_ = s.fallback.Reset(ctx, callID)
	if err := s.client.Del(ctx, sessionPrefix+callID).Err(); err != nil {
		s.logger.Warn("session store degraded during reset",
			zap.String("callId", callID), zap.Error(err))
	}
	return nil
}
