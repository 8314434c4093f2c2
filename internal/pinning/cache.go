package pinning

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// MetadataCache stores pin list lookups keyed by CID.
type MetadataCache interface {
	Get(ctx context.Context, cid string) (PinList, bool, error)
	Set(ctx context.Context, cid string, list PinList) error
	Delete(ctx context.Context, cid string) error
}

func metadataKey(cid string) string {
	return "pin:meta:" + cid
}

// RedisMetadataCache is a MetadataCache backed by Redis string keys with a TTL.
type RedisMetadataCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ MetadataCache = (*RedisMetadataCache)(nil)

// NewRedisMetadataCache wraps client; ttl <= 0 defaults to five minutes.
func NewRedisMetadataCache(client *redis.Client, ttl time.Duration) *RedisMetadataCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisMetadataCache{client: client, ttl: ttl}
}

func (c *RedisMetadataCache) Get(ctx context.Context, cid string) (PinList, bool, error) {
	data, err := c.client.Get(ctx, metadataKey(cid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return PinList{}, false, nil
		}
		return PinList{}, false, err
	}
	var list PinList
	if err := json.Unmarshal(data, &list); err != nil {
		return PinList{}, false, err
	}
	return list, true, nil
}

func (c *RedisMetadataCache) Set(ctx context.Context, cid string, list PinList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, metadataKey(cid), data, c.ttl).Err()
}

func (c *RedisMetadataCache) Delete(ctx context.Context, cid string) error {
	return c.client.Del(ctx, metadataKey(cid)).Err()
}
