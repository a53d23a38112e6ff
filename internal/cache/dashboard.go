package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/config"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardKeyPrefix = "dashboard:view"
	defaultCacheTTL    = time.Minute
	scanBatchSize      = 100
)

// DashboardKey identifies one cached view. Version is the user's state
// version, so any write makes older entries unreachable.
type DashboardKey struct {
	UserID  string
	Version int64
	Date    time.Time
}

type DashboardCache interface {
	Get(ctx context.Context, key DashboardKey) (*domain.Dashboard, bool, error)
	Set(ctx context.Context, key DashboardKey, view *domain.Dashboard) error
	InvalidateUser(ctx context.Context, userID string) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, err := dialRedis(cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisDashboardCache(client, cfg.DashboardTTL()), nil
}

// NewRedisDashboardCache wraps an existing client.
func NewRedisDashboardCache(client *redis.Client, ttl time.Duration) DashboardCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisDashboardCache{client: client, ttl: ttl}
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context, key DashboardKey) (*domain.Dashboard, bool, error) {
	payload, err := c.client.Get(ctx, key.String()).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var view domain.Dashboard
	if err := json.Unmarshal(payload, &view); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return &view, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, key DashboardKey, view *domain.Dashboard) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, key.String(), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) InvalidateUser(ctx context.Context, userID string) error {
	keys, err := userViewKeys(ctx, c.client, userPrefix(userID))
	if err != nil {
		return err
	}
	return unlinkViews(ctx, c.client, keys)
}

func (n *noopDashboardCache) Get(ctx context.Context, key DashboardKey) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, key DashboardKey, view *domain.Dashboard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateUser(ctx context.Context, userID string) error {
	return nil
}

// String renders the redis key, e.g. dashboard:view:<user hash>:12:2025-03-14.
func (k DashboardKey) String() string {
	return fmt.Sprintf("%s%d:%s", userPrefix(k.UserID), k.Version, k.Date.Format(time.DateOnly))
}

func userPrefix(userID string) string {
	sum := sha1.Sum([]byte(userID))
	return fmt.Sprintf("%s:%s:", dashboardKeyPrefix, hex.EncodeToString(sum[:8]))
}
