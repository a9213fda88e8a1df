// Package redis provides a validator store shared across processes through
// a Redis server.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	gorevalidate "github.com/validstore/go-revalidate"
	"github.com/validstore/go-revalidate/stores"
)

const keyPrefix = "revalidate:"

// Config defines the configuration options for the Redis store.
type Config struct {
	// RecordTTL is applied as the Redis key TTL, so Redis expires stale
	// validator records itself.
	RecordTTL time.Duration
}

// Store implements the gorevalidate.Store interface on Redis. Records are
// stored as JSON under a "revalidate:" key prefix so unrelated keys in a
// shared server never enter a scan.
type Store struct {
	client *redis.Client

	ttl time.Duration
}

type record struct {
	ETag         string    `json:"etag"`
	Weak         bool      `json:"weak"`
	LastModified time.Time `json:"last_modified"`
}

func (s *Store) Get(ctx context.Context, k gorevalidate.StoreKey) (*gorevalidate.ValidatorValue, error) {
	data, err := s.client.Get(ctx, keyPrefix+string(k)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gorevalidate.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode validator record: %w", err)
	}

	return &gorevalidate.ValidatorValue{
		ETag:         gorevalidate.ETag{Value: rec.ETag, Weak: rec.Weak},
		LastModified: rec.LastModified.UTC(),
	}, nil
}

func (s *Store) Set(ctx context.Context, k gorevalidate.StoreKey, v *gorevalidate.ValidatorValue) error {
	data, err := json.Marshal(record{
		ETag:         v.ETag.Value,
		Weak:         v.ETag.Weak,
		LastModified: v.LastModified.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode validator record: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+string(k), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, k gorevalidate.StoreKey) error {
	if err := s.client.Del(ctx, keyPrefix+string(k)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// escapeMatch escapes the MATCH glob metacharacters in part so SCAN
// treats it as a literal substring.
func escapeMatch(part string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`).Replace(part)
}

// KeysByPart walks the keyspace with SCAN, one cursor page at a time.
// Redis MATCH patterns are case-sensitive, so the case-insensitive form
// scans the whole prefix and filters client side. Each range restarts the
// cursor from zero.
func (s *Store) KeysByPart(ctx context.Context, part string, ignoreCase bool) iter.Seq2[gorevalidate.StoreKey, error] {
	match := keyPrefix + "*" + escapeMatch(part) + "*"
	if ignoreCase {
		match = keyPrefix + "*"
	}

	return func(yield func(gorevalidate.StoreKey, error) bool) {
		lowered := strings.ToLower(part)

		var cursor uint64
		for {
			page, next, err := s.client.Scan(ctx, cursor, match, 100).Result()
			if err != nil {
				yield("", errors.Join(stores.ErrScanAborted, err))
				return
			}

			for _, raw := range page {
				key := strings.TrimPrefix(raw, keyPrefix)
				if ignoreCase && !strings.Contains(strings.ToLower(key), lowered) {
					continue
				}
				if !yield(gorevalidate.StoreKey(key), nil) {
					return
				}
			}

			if next == 0 {
				return
			}
			cursor = next
		}
	}
}

// New creates a Redis store. Returns an error if the client is nil.
func New(client *redis.Client, config *Config) (*Store, error) {
	if client == nil {
		return nil, stores.ValidationError{
			Reason: "nil client",
		}
	}

	ttl := stores.DefaultRecordTTL
	if config != nil && config.RecordTTL > 0 {
		ttl = config.RecordTTL
	}

	return &Store{
		client: client,

		ttl: ttl,
	}, nil
}
