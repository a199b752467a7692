// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"voicedesk/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// SessionCacheClient backs the conversation session store.
	SessionCacheClient *redis.Client
	// QueueCacheClient is the dedicated client for the reminder queue DB.
	QueueCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client for conversation sessions.
// A failed ping is logged but not fatal: the session store degrades to its
// in-process fallback when Redis is unreachable.
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SessionCacheClient.Ping(ctx).Result(); err != nil {
		GetLogger().Warn("Redis (Session) unreachable, session store will run degraded", zap.Error(err))
	}
}

// GetSessionCacheClient returns the session cache client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitQueueCache initializes the Redis client for the reminder queue DB.
func InitQueueCache() {
	QueueCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := QueueCacheClient.Ping(ctx).Result(); err != nil {
		GetLogger().Warn("Redis (Queue) unreachable, reminders will be best-effort", zap.Error(err))
	}
}

// GetQueueCacheClient returns the Redis client for the reminder queue.
func GetQueueCacheClient() *redis.Client {
	if QueueCacheClient == nil {
		InitQueueCache()
	}
	return QueueCacheClient
}
