package metrics

import (
	"sync"
	"time"
)

// Metrics counts interview activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	mu   sync.RWMutex
	snap Snapshot
}

type Snapshot struct {
	SessionsStarted int64
	SessionsEnded   int64
	ChatTurns       int64
	FollowUpsAsked  int64
	LLMCallsTotal   int64
	LLMCallsFailed  int64
	DroppedWrites   int64
	LastUpdateTime  time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{snap: Snapshot{LastUpdateTime: time.Now()}}
}

func (m *Metrics) update(fn func(s *Snapshot)) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.snap)
	m.snap.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSessionsStarted() {
	m.update(func(s *Snapshot) { s.SessionsStarted++ })
}

func (m *Metrics) IncrementSessionsEnded() {
	m.update(func(s *Snapshot) { s.SessionsEnded++ })
}

func (m *Metrics) IncrementChatTurns(followUp bool) {
	m.update(func(s *Snapshot) {
		s.ChatTurns++
		if followUp {
			s.FollowUpsAsked++
		}
	})
}

func (m *Metrics) IncrementLLMCall(success bool) {
	m.update(func(s *Snapshot) {
		s.LLMCallsTotal++
		if !success {
			s.LLMCallsFailed++
		}
	})
}

func (m *Metrics) IncrementDroppedWrites() {
	m.update(func(s *Snapshot) { s.DroppedWrites++ })
}

func (m *Metrics) GetSnapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}
