package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/prepmate/prepmate/internal/models"
	"github.com/prepmate/prepmate/internal/utils"
)

// MemoryStore is the in-process Store used in tests. Values round-trip
// through JSON so callers see the same copy semantics as the Redis store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, interviewID string) (*models.InterviewSession, error) {
	s.mu.RLock()
	raw, ok := s.sessions[interviewID]
	s.mu.RUnlock()
	if !ok {
		return nil, utils.ErrNotFound
	}

	var out models.InterviewSession
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *models.InterviewSession) error {
	if sess == nil || sess.InterviewID == "" {
		return errors.New("session requires an interview id")
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[sess.InterviewID] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, interviewID string) error {
	s.mu.Lock()
	delete(s.sessions, interviewID)
	s.mu.Unlock()
	return nil
}
