package auth

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Denylist records invalidated token identifiers until their expiry.
type Denylist interface {
	// Add stores jti and reports false if it was already present.
	Add(ctx context.Context, jti string, expiresAt time.Time) (bool, error)
	Contains(ctx context.Context, jti string) (bool, error)
}

type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Add(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return d.client.SetNX(ctx, DenylistKey(jti), expiresAt.Unix(), ttl).Result()
}

func (d *RedisDenylist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, DenylistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Build cache key for a denylisted token id
func DenylistKey(jti string) string {
	return "denylist:jti:" + jti
}

// MemoryDenylist keeps entries in process memory. Entries are lost on
// restart and are not shared between replicas.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *MemoryDenylist) Add(_ context.Context, jti string, expiresAt time.Time) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.purgeLocked()
	if _, ok := d.entries[jti]; ok {
		return false, nil
	}
	d.entries[jti] = expiresAt
	return true, nil
}

func (d *MemoryDenylist) Contains(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.entries[jti]
	if !ok {
		return false, nil
	}
	if !d.now().Before(exp) {
		delete(d.entries, jti)
		return false, nil
	}
	return true, nil
}

func (d *MemoryDenylist) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

func (d *MemoryDenylist) purgeLocked() {
	now := d.now()
	for jti, exp := range d.entries {
		if !now.Before(exp) {
			delete(d.entries, jti)
		}
	}
}
