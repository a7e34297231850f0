package state

import (
	"context"
	"errors"
	"fmt"
	"strings"

	backend "github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key the Redis backend writes.
const DefaultRedisPrefix = "simdeck:"

// RedisStore is the Redis defaults backend, for hosts that share one pool of
// simulators between machines.
type RedisStore struct {
	client       *backend.Client
	prefix       string
	historyLimit int
}

type RedisOption func(*RedisStore)

func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithHistoryLimit caps the stored target history list.
func WithHistoryLimit(n int) RedisOption {
	return func(s *RedisStore) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

func NewRedisStore(address, password string, db int, opts ...RedisOption) *RedisStore {
	return NewRedisStoreFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:       client,
		prefix:       DefaultRedisPrefix,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) defaultsKey() string { return s.prefix + "defaults" }
func (s *RedisStore) historyKey() string  { return s.prefix + "history" }

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("default key is empty")
	}
	val, err := s.client.HGet(ctx, s.defaultsKey(), key).Result()
	if errors.Is(err, backend.Nil) {
		return "", fmt.Errorf("%w: %s", ErrNoDefault, key)
	}
	if err != nil {
		return "", fmt.Errorf("read default %q: %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("default key is empty")
	}
	if err := s.client.HSet(ctx, s.defaultsKey(), key, value).Err(); err != nil {
		return fmt.Errorf("write default %q: %w", key, err)
	}
	return nil
}

// UpdateLastUsed sets the last-used target and moves it to the head of the
// history list.
func (s *RedisStore) UpdateLastUsed(ctx context.Context, udid string) error {
	if strings.TrimSpace(udid) == "" {
		return fmt.Errorf("udid is empty")
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.defaultsKey(), KeyLastUsed, udid)
	pipe.LRem(ctx, s.historyKey(), 0, udid)
	pipe.LPush(ctx, s.historyKey(), udid)
	pipe.LTrim(ctx, s.historyKey(), 0, int64(s.historyLimit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record last used: %w", err)
	}
	return nil
}

func (s *RedisStore) LastUsed(ctx context.Context) (string, error) {
	return s.Get(ctx, KeyLastUsed)
}

func (s *RedisStore) History(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	out, err := s.client.LRange(ctx, s.historyKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read target history: %w", err)
	}
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
