package content

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"quizhub/internal/quiz"
)

const (
	catalogKey        = "quizhub:catalog"
	defaultCatalogTTL = 30 * time.Second
)

// ListCache caches the serialized catalog listing. A (nil, nil) Get is
// a miss.
type ListCache interface {
	Get(ctx context.Context) ([]Entry, error)
	Set(ctx context.Context, entries []Entry) error
}

// RedisListCache keeps the catalog in Redis so busy selection screens
// skip directory or table scans.
type RedisListCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ListCache = (*RedisListCache)(nil)

func NewRedisListCache(client *redis.Client, ttl time.Duration) *RedisListCache {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &RedisListCache{client: client, ttl: ttl}
}

func (c *RedisListCache) Get(ctx context.Context) ([]Entry, error) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *RedisListCache) Set(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogKey, data, c.ttl).Err()
}

// CachedSource decorates a Source with catalog caching. Load always
// goes to the underlying source so every run re-validates content.
type CachedSource struct {
	src   Source
	cache ListCache
}

var _ Source = (*CachedSource)(nil)

func NewCachedSource(src Source, cache ListCache) *CachedSource {
	return &CachedSource{src: src, cache: cache}
}

func (s *CachedSource) List(ctx context.Context) ([]Entry, error) {
	if cached, err := s.cache.Get(ctx); err == nil && cached != nil {
		return cached, nil
	}
	entries, err := s.src.List(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, entries)
	return entries, nil
}

func (s *CachedSource) Load(ctx context.Context, id string) (*quiz.Document, error) {
	return s.src.Load(ctx, id)
}
