package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

// Client vers un port fermé : chaque commande échoue vite.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func liveClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCacheDegradesToMissWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	c := NewRedisCache(unreachableClient(t), time.Minute)

	c.SetUser(ctx, &domain.User{ID: "u1"})
	_, ok := c.GetUser(ctx, "u1")
	assert.False(t, ok)

	_, ok = c.GetPost(ctx, "p1")
	assert.False(t, ok)

	assert.NotPanics(t, func() {
		c.InvalidatePosts(ctx, "p1")
		c.InvalidateUsers(ctx)
	})
}

func TestRateLimiterSurfacesRedisErrors(t *testing.T) {
	l := NewRateLimiter(unreachableClient(t), 5, time.Minute)

	allowed, err := l.Allow(context.Background(), "user-1")
	require.Error(t, err)
	assert.False(t, allowed)
}

func TestCacheRoundTripAndInvalidation(t *testing.T) {
	ctx := context.Background()
	c := NewRedisCache(liveClient(t), time.Minute)

	post := &domain.Post{ID: uuid.NewString(), UserID: "u1", Content: "hi", LikesCount: 3}
	c.SetPost(ctx, post)

	got, ok := c.GetPost(ctx, post.ID)
	require.True(t, ok)
	assert.Equal(t, int32(3), got.LikesCount)

	c.InvalidatePosts(ctx, post.ID)
	_, ok = c.GetPost(ctx, post.ID)
	assert.False(t, ok)
}

func TestRateLimiterWindow(t *testing.T) {
	l := NewRateLimiter(liveClient(t), 2, time.Minute)
	key := "test:" + uuid.NewString()

	for range 2 {
		allowed, err := l.Allow(context.Background(), key)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := l.Allow(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, allowed)
}
