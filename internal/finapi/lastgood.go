package finapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const lastGoodPrefix = "execboard:lastgood"

// RedisStore keeps the last successful payload per request in Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a store. A nil client disables it.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Save stores value as JSON under key.
func (s *RedisStore) Save(ctx context.Context, key string, value any) error {
	if s == nil || s.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, s.ttl).Err()
}

// Load decodes the payload stored under key into dest. It reports false when
// nothing is stored.
func (s *RedisStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) lastGoodKey(ctx context.Context, name string, params url.Values) string {
	tenant := TenantFromContext(ctx)
	if tenant == "" {
		tenant = c.tenantID
	}
	if tenant == "" {
		tenant = "default"
	}
	return strings.Join([]string{lastGoodPrefix, name, tenant, params.Encode()}, ":")
}

func (c *Client) remember(ctx context.Context, name string, params url.Values, value any) {
	if c.store == nil {
		return
	}
	if err := c.store.Save(ctx, c.lastGoodKey(ctx, name, params), value); err != nil {
		c.logger.Warn("finapi: store last good payload", slog.String("resource", name), slog.Any("error", err))
	}
}

func (c *Client) recall(ctx context.Context, name string, params url.Values, dest any) bool {
	if c.store == nil {
		return false
	}
	ok, err := c.store.Load(ctx, c.lastGoodKey(ctx, name, params), dest)
	if err != nil {
		c.logger.Warn("finapi: load last good payload", slog.String("resource", name), slog.Any("error", err))
		return false
	}
	return ok
}
