package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
)

const defaultKeyPrefix = "lesson_session:"

type redisStore struct {
	client *goredis.Client
	ttl    time.Duration
	prefix string
}

func newRedisStore(cfg *storeConfig) *redisStore {
	ttl := cfg.ttl
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	prefix := cfg.keyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &redisStore{client: cfg.redisClient, ttl: ttl, prefix: prefix}
}

func (s *redisStore) key(id string) string { return s.prefix + id }

func (s *redisStore) Get(ctx context.Context, id string) (*lesson.Session, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var sess lesson.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	_ = s.client.Expire(ctx, s.key(id), s.ttl).Err()
	return &sess, nil
}

func (s *redisStore) Put(ctx context.Context, sess *lesson.Session) error {
	val, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *redisStore) Count(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return n, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
