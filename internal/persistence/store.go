package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/config"
)

// Keys of the values the client persists between runs.
const (
	KeyAccessToken = "accessToken"
	KeyLocale      = "locale"
)

// KeyValueStore is durable client-side storage for small string values.
type KeyValueStore interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig, redisCfg config.RedisConfig, logger *zap.Logger) (KeyValueStore, error) {
	switch cfg.Backend {
	case config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageRedis:
		return NewRedisStore(ctx, redisCfg, cfg.KeyPrefix, logger)
	case config.StorageSQLite, "":
		return OpenSQLite(ctx, cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("persistence: unknown backend %q", cfg.Backend)
	}
}
