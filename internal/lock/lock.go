package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "alerts:sync:lock:"

var ErrNotAcquired = errors.New("lock already held")

// releaseScript deletes the key only while it still holds our token, so an
// expired lease never removes a lock taken over by another worker.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CompanyLocker hands out per-company leases backed by Redis SET NX PX.
type CompanyLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCompanyLocker(client *redis.Client, ttl time.Duration) *CompanyLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CompanyLocker{client: client, ttl: ttl}
}

// Lock takes the lease for companyID or returns ErrNotAcquired when another
// holder has it. The returned func releases the lease.
func (l *CompanyLocker) Lock(ctx context.Context, companyID string) (func(context.Context) error, error) {
	key := keyPrefix + companyID
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("company %s: %w", companyID, ErrNotAcquired)
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("redis release %s: %w", key, err)
		}
		return nil
	}, nil
}
