package pkg

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/survey-service/internal/config"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	assert.True(t, mr.Exists("k"))
}

func TestNewRedisClient_Errors(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisClient(context.Background(), "redis://"+addr)
	assert.Error(t, err)
}

func TestNewSessionCache(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	memory, closeMemory, err := NewSessionCache(ctx, &config.Config{SessionStore: "memory"}, logger)
	require.NoError(t, err)
	assert.NoError(t, closeMemory())
	assert.NoError(t, memory.Set(ctx, "k", 1, time.Minute))

	mr := miniredis.RunT(t)
	redisCache, closeRedis, err := NewSessionCache(ctx, &config.Config{SessionStore: "redis", RedisURL: "redis://" + mr.Addr()}, logger)
	require.NoError(t, err)
	defer closeRedis()

	require.NoError(t, redisCache.Set(ctx, "survey:session:x", map[string]int{"step": 2}, time.Minute))
	assert.True(t, mr.Exists("survey:session:x"))
}
