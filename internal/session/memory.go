package session

import (
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on
// restart; expired entries are swept periodically.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates the in-process session store and starts its sweep
// goroutine.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*Session),
	}

	go s.sweep()

	return s
}

func (s *MemoryStore) Get(sid string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sid]
	if !ok || !sess.ExpiresAt.After(time.Now()) {
		return nil, nil
	}

	cp := *sess
	return &cp, nil
}

func (s *MemoryStore) Set(sid string, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sess
	s.sessions[sid] = &cp
	return nil
}

func (s *MemoryStore) Destroy(sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sid)
	return nil
}

func (s *MemoryStore) sweep() {
	for {
		time.Sleep(time.Minute)

		now := time.Now()
		s.mu.Lock()
		for sid, sess := range s.sessions {
			if !sess.ExpiresAt.After(now) {
				delete(s.sessions, sid)
			}
		}
		s.mu.Unlock()
	}
}
