package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/siahsang/conduit/internal/utils/collectionutils"
)

// Revoker remembers logged-out session ids until they expire.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type MemoryRevoker struct {
	revoked *collectionutils.SafeMap[string, time.Time]
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{
		revoked: collectionutils.New[string, time.Time](),
		now:     time.Now,
	}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	now := m.now()
	m.revoked.DeleteFunc(func(_ string, expiry time.Time) bool {
		return !expiry.After(now)
	})
	if until.After(now) {
		m.revoked.Store(tokenID, until)
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	expiry, ok := m.revoked.Get(tokenID)
	return ok && expiry.After(m.now()), nil
}

const revokedKeyPrefix = "conduit:revoked:"

type RedisRevoker struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisRevoker(client redis.Cmdable) *RedisRevoker {
	return &RedisRevoker{client: client, now: time.Now}
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
