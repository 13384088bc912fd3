package scheduler

import (
	"context"
	"time"

	"ListingPulse/pkg/cache"
	"ListingPulse/pkg/store"
)

// Tier is one layer of snapshot persistence. Load returns the raw persisted
// envelope or an error when the tier has nothing usable.
type Tier interface {
	Name() string
	Load(ctx context.Context, key string) ([]byte, error)
	Store(ctx context.Context, key string, data []byte) error
}

// RedisTier persists snapshots in Redis with a TTL, so a quick restart warm
// starts without touching disk.
type RedisTier struct {
	cache cache.Service
	ttl   time.Duration
}

// NewRedisTier creates a RedisTier. ttl zero means no expiry.
func NewRedisTier(c cache.Service, ttl time.Duration) *RedisTier {
	return &RedisTier{cache: c, ttl: ttl}
}

func (t *RedisTier) Name() string { return "redis" }

func (t *RedisTier) Load(ctx context.Context, key string) ([]byte, error) {
	var raw []byte
	if err := t.cache.Get(ctx, snapshotKey(key), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (t *RedisTier) Store(ctx context.Context, key string, data []byte) error {
	return t.cache.Set(ctx, snapshotKey(key), data, t.ttl)
}

func snapshotKey(key string) string { return "snapshot:" + key }

// DiskTier persists snapshots as flat files, surviving Redis flushes and
// full redeploys.
type DiskTier struct {
	store *store.DiskStore
}

// NewDiskTier creates a DiskTier.
func NewDiskTier(s *store.DiskStore) *DiskTier {
	return &DiskTier{store: s}
}

func (t *DiskTier) Name() string { return "disk" }

func (t *DiskTier) Load(_ context.Context, key string) ([]byte, error) {
	return t.store.Read(key)
}

func (t *DiskTier) Store(_ context.Context, key string, data []byte) error {
	return t.store.Write(key, data)
}
