package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fadilmartias/interview-engine/internal/interview"
)

type keyLock struct {
	sem  chan struct{}
	refs int // holders plus waiters, guarded by MemoryStore.mu
}

// MemoryStore is a process-local Store. Sessions idle longer than ttl are
// dropped by a background janitor.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*interview.Session
	locks    map[string]*keyLock
	ttl      time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*interview.Session),
		locks:    make(map[string]*keyLock),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// StartJanitor sweeps expired sessions every interval until Close is called.
func (m *MemoryStore) StartJanitor(interval time.Duration) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := m.sweep(); n > 0 {
					slog.Info("expired idle interview sessions", "count", n)
				}
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *MemoryStore) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *MemoryStore) sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	removed := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *MemoryStore) Create(_ context.Context, s *interview.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.SessionID]; ok {
		return fmt.Errorf("%w: %s", interview.ErrSessionExists, s.SessionID)
	}
	m.sessions[s.SessionID] = s.Clone()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*interview.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", interview.ErrSessionNotFound, sessionID)
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, s *interview.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.SessionID]; !ok {
		return fmt.Errorf("%w: %s", interview.ErrSessionNotFound, s.SessionID)
	}
	m.sessions[s.SessionID] = s.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}

// Lock blocks until the per-session semaphore is free or ctx is done.
// Entries are reference counted and removed once nobody holds or waits on them.
func (m *MemoryStore) Lock(ctx context.Context, sessionID string) (func(), error) {
	m.mu.Lock()
	kl, ok := m.locks[sessionID]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		m.locks[sessionID] = kl
	}
	kl.refs++
	m.mu.Unlock()

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		m.release(sessionID, kl)
		return nil, fmt.Errorf("lock session %s: %w", sessionID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.sem
			m.release(sessionID, kl)
		})
	}, nil
}

func (m *MemoryStore) release(sessionID string, kl *keyLock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kl.refs--
	if kl.refs == 0 && m.locks[sessionID] == kl {
		delete(m.locks, sessionID)
	}
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
