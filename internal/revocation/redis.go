package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares the revocation set between replicas. Each revoked token
// is one key whose TTL is the token's remaining lifetime.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
	now    func() time.Time
}

func NewRedisStore(rdb redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "taskhub"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(tokenID string) string {
	return s.prefix + ":revoked:" + tokenID
}

func (s *RedisStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if tokenID == "" || ttl <= 0 {
		return nil
	}

	return s.rdb.Set(ctx, s.key(tokenID), 1, ttl).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
