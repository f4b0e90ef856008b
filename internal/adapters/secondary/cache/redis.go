package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

// RedisCache implémente ports.EntityCache.
// Toute erreur Redis est traitée comme un miss : le store reste la source de vérité.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func userKey(id string) string { return fmt.Sprintf("user:%s", id) }
func postKey(id string) string { return fmt.Sprintf("post:%s", id) }

func (c *RedisCache) GetUser(ctx context.Context, id string) (*domain.User, bool) {
	var u domain.User
	if !c.get(ctx, userKey(id), &u) {
		return nil, false
	}
	return &u, true
}

func (c *RedisCache) SetUser(ctx context.Context, user *domain.User) {
	c.set(ctx, userKey(user.ID), user)
}

func (c *RedisCache) GetPost(ctx context.Context, id string) (*domain.Post, bool) {
	var p domain.Post
	if !c.get(ctx, postKey(id), &p) {
		return nil, false
	}
	return &p, true
}

func (c *RedisCache) SetPost(ctx context.Context, post *domain.Post) {
	c.set(ctx, postKey(post.ID), post)
}

func (c *RedisCache) InvalidateUsers(ctx context.Context, ids ...string) {
	c.del(ctx, ids, userKey)
}

func (c *RedisCache) InvalidatePosts(ctx context.Context, ids ...string) {
	c.del(ctx, ids, postKey)
}

// --- HELPERS ---

func (c *RedisCache) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "Cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.WarnContext(ctx, "Cache entry corrupted", "key", key, "error", err)
		return false
	}
	return true
}

func (c *RedisCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Cache write failed", "key", key, "error", err)
	}
}

func (c *RedisCache) del(ctx context.Context, ids []string, keyFn func(string) string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, keyFn(id))
	}
	// Une entrée périmée survit au pire jusqu'au TTL
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "Cache invalidation failed", "keys", keys, "error", err)
	}
}
