package app

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/udl-lesson-backend/internal/data/sessionstore"
	"github.com/yungbote/udl-lesson-backend/internal/platform/llm"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

type Clients struct {
	LLM          llm.Provider
	ProviderName string
	Sessions     sessionstore.Store
}

func (c Clients) Close() error {
	if c.Sessions == nil {
		return nil
	}
	return c.Sessions.Close()
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	provider, err := llm.NewProvider(ctx, cfg.LLM, log)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Warn("No LLM provider configured; lessons will use fallback content", "reason", err)
	case err != nil:
		return Clients{}, fmt.Errorf("init llm provider: %w", err)
	}
	name := ""
	if provider != nil {
		name = cfg.LLM.Provider
	}

	sessions, err := resolveSessionStore(ctx, log, cfg)
	if err != nil {
		return Clients{}, err
	}
	return Clients{LLM: provider, ProviderName: name, Sessions: sessions}, nil
}

func resolveSessionStore(ctx context.Context, log *logger.Logger, cfg Config) (sessionstore.Store, error) {
	kind := sessionstore.StoreType(cfg.SessionStore)
	var opts []sessionstore.StoreOption
	switch kind {
	case sessionstore.StoreTypeRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("%w: REDIS_ADDR is required for the redis session store", sessionstore.ErrInvalidConfig)
		}
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		opts = append(opts, sessionstore.WithRedisClient(client), sessionstore.WithTTL(cfg.SessionTTL))
	case sessionstore.StoreTypeGorm:
		if cfg.DatabaseDSN == "" {
			return nil, fmt.Errorf("%w: DATABASE_URL is required for the gorm session store", sessionstore.ErrInvalidConfig)
		}
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sessionstore.WithDB(db))
	}

	store, err := sessionstore.NewStore(kind, opts...)
	if err != nil {
		return nil, fmt.Errorf("init session store: %w", err)
	}
	log.Info("Session store ready", "type", kind)
	return store, nil
}

func openDatabase(cfg Config) (*gorm.DB, error) {
	db, err := sessionstore.OpenGorm(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DatabaseDriver, err)
	}
	return db, nil
}
