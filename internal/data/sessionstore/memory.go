package sessionstore

import (
	"context"
	"sync"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*lesson.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]*lesson.Session{}}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*lesson.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, sess *lesson.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = map[string]*lesson.Session{}
	return nil
}
