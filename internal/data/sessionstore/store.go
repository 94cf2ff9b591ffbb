// Package sessionstore keeps lesson sessions. Stores hand out copies, so
// callers mutate a session and Put it back; the last write wins.
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
)

var (
	ErrNotFound         = errors.New("session not found")
	ErrInvalidConfig    = errors.New("invalid session store configuration")
	ErrInvalidStoreType = errors.New("invalid session store type")
)

type Store interface {
	// Get returns a copy of the session or ErrNotFound.
	Get(ctx context.Context, id string) (*lesson.Session, error)
	// Put creates or replaces the session.
	Put(ctx context.Context, s *lesson.Session) error
	// Delete removes the session; unknown ids yield ErrNotFound.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Close() error
}

type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeGorm   StoreType = "gorm"
)

type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient *goredis.Client
	ttl         time.Duration
	keyPrefix   string
	db          *gorm.DB
}

func WithRedisClient(client *goredis.Client) StoreOption {
	return func(c *storeConfig) { c.redisClient = client }
}

// WithTTL sets the idle expiry of redis sessions. Reads refresh it.
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) { c.ttl = ttl }
}

func WithKeyPrefix(prefix string) StoreOption {
	return func(c *storeConfig) { c.keyPrefix = prefix }
}

func WithDB(db *gorm.DB) StoreOption {
	return func(c *storeConfig) { c.db = db }
}

// NewStore builds the store of the given type. redis needs WithRedisClient,
// gorm needs WithDB.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	cfg := &storeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	switch StoreType(strings.ToLower(string(storeType))) {
	case "", StoreTypeMemory:
		return NewMemoryStore(), nil
	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, fmt.Errorf("%w: redis client required", ErrInvalidConfig)
		}
		return newRedisStore(cfg), nil
	case StoreTypeGorm:
		if cfg.db == nil {
			return nil, fmt.Errorf("%w: gorm db required", ErrInvalidConfig)
		}
		return NewGormStore(cfg.db)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStoreType, storeType)
	}
}
