package session

import (
	"context"
	"testing"
	"time"

	"voicedesk/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// unreachableRedis returns a client whose every command fails, which is
// exactly the degraded mode the fallback path exists for.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisStoreDegradedServesFromFallback(t *testing.T) {
	store := NewRedisStore(unreachableRedis(), time.Minute, 30, zap.NewNop())
	ctx := context.Background()

	sess, err := store.Get(ctx, "call-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepAskName, sess.CurrentStep)

	sess.CurrentStep = models.StepAskTime
	sess.Fields.FullName = "Johnny Walker"
	require.NoError(t, store.Save(ctx, sess))

	// The degraded write must be visible on the next turn.
	got, err := store.Get(ctx, "call-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepAskTime, got.CurrentStep)
	assert.Equal(t, "Johnny Walker", got.Fields.FullName)
}

func TestRedisStoreDegradedResetClearsFallback(t *testing.T) {
	store := NewRedisStore(unreachableRedis(), time.Minute, 30, zap.NewNop())
	ctx := context.Background()

	sess, _ := store.Get(ctx, "call-1")
	sess.CurrentStep = models.StepConfirm
	require.NoError(t, store.Save(ctx, sess))

	require.NoError(t, store.Reset(ctx, "call-1"))

	got, err := store.Get(ctx, "call-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepAskName, got.CurrentStep)
}
