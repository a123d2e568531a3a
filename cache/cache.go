// Package cache stores serialized content results under a key with a time to live.
package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/key"
	"github.com/squidlr/squidlr/where"
)

// Store is safe for concurrent use. A missing or expired key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// FromConfig builds the store selected by cache.backend.
func FromConfig() (Store, error) {
	switch backend := viper.GetString(key.CacheBackend); backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendRedis:
		return NewRedis(&redis.Options{
			Addr:     viper.GetString(key.RedisAddress),
			Password: viper.GetString(key.RedisPassword),
			DB:       viper.GetInt(key.RedisDB),
		})
	case BackendFile:
		return NewFile(filepath.Join(where.Cache(), "content.json")), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// TTL is the configured lifetime of a cached result.
func TTL() time.Duration {
	return time.Duration(viper.GetInt(key.CacheTTLMinutes)) * time.Minute
}
