package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadilmartias/interview-engine/internal/interview"
)

func newSession(t *testing.T, id string) *interview.Session {
	t.Helper()
	s, err := interview.NewSession(id, "script-1", interview.CandidateInfo{Name: "Ravi", Skills: []string{"Go"}},
		[]interview.Question{{Question: "Why Go?"}, {Question: "Tell me about a hard bug."}}, 2, time.Now())
	require.NoError(t, err)
	return s
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test", time.Hour), mr
}

func stores(t *testing.T) map[string]Store {
	rs, _ := newRedisStore(t)
	return map[string]Store{
		"memory": NewMemoryStore(time.Hour),
		"redis":  rs,
	}
}

func TestStoreLifecycle(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newSession(t, "abc")

			require.NoError(t, st.Create(ctx, s))
			assert.ErrorIs(t, st.Create(ctx, s), interview.ErrSessionExists)

			got, err := st.Get(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, "abc", got.SessionID)
			assert.Equal(t, 2, got.TotalQuestions())

			got.CurrentQuestionIndex = 1
			again, err := st.Get(ctx, "abc")
			require.NoError(t, err)
			assert.Zero(t, again.CurrentQuestionIndex, "Get must return a copy")

			require.NoError(t, st.Save(ctx, got))
			again, err = st.Get(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, 1, again.CurrentQuestionIndex)

			require.NoError(t, st.Delete(ctx, "abc"))
			_, err = st.Get(ctx, "abc")
			assert.ErrorIs(t, err, interview.ErrSessionNotFound)
			assert.ErrorIs(t, st.Save(ctx, got), interview.ErrSessionNotFound)
		})
	}
}

func TestStoreLockSerializes(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			unlock, err := st.Lock(ctx, "abc")
			require.NoError(t, err)

			waitCtx, cancel := context.WithTimeout(ctx, 120*time.Millisecond)
			defer cancel()
			_, err = st.Lock(waitCtx, "abc")
			assert.ErrorIs(t, err, context.DeadlineExceeded)

			other, err := st.Lock(ctx, "other")
			require.NoError(t, err)
			other()

			unlock()
			unlock()
			relock, err := st.Lock(ctx, "abc")
			require.NoError(t, err)
			relock()
		})
	}
}

func TestStoreConcurrentIncrements(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, st.Create(ctx, newSession(t, "abc")))

			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					unlock, err := st.Lock(ctx, "abc")
					if !assert.NoError(t, err) {
						return
					}
					defer unlock()
					s, err := st.Get(ctx, "abc")
					if !assert.NoError(t, err) {
						return
					}
					s.AskedFollowUps++
					assert.NoError(t, st.Save(ctx, s))
				}()
			}
			wg.Wait()

			s, err := st.Get(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, 10, s.AskedFollowUps)
		})
	}
}

func TestMemoryStoreSweepsIdleSessions(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	fresh := newSession(t, "fresh")
	fresh.UpdatedAt = now.Add(-30 * time.Second)
	stale := newSession(t, "stale")
	stale.UpdatedAt = now.Add(-2 * time.Minute)
	require.NoError(t, m.Create(context.Background(), fresh))
	require.NoError(t, m.Create(context.Background(), stale))

	assert.Equal(t, 1, m.sweep())
	assert.Equal(t, 1, m.Len())
	_, err := m.Get(context.Background(), "stale")
	assert.ErrorIs(t, err, interview.ErrSessionNotFound)
}

func TestRedisStoreAppliesTTLAndPrefix(t *testing.T) {
	rs, mr := newRedisStore(t)
	require.NoError(t, rs.Create(context.Background(), newSession(t, "abc")))

	assert.True(t, mr.Exists("test:session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("test:session:abc"))

	mr.FastForward(2 * time.Hour)
	_, err := rs.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, interview.ErrSessionNotFound)
}

func TestMemoryStoreLockEntriesAreReleased(t *testing.T) {
	m := NewMemoryStore(time.Hour)
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		unlock, err := m.Lock(ctx, fmt.Sprintf("missing-%d", i))
		require.NoError(t, err)
		unlock()
		unlock()
	}
	assert.Empty(t, m.locks)

	unlock, err := m.Lock(ctx, "abc")
	require.NoError(t, err)
	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = m.Lock(waitCtx, "abc")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, m.locks, 1)

	unlock()
	assert.Empty(t, m.locks)
}

func TestRedisStoreRenewsHeldLock(t *testing.T) {
	rs, mr := newRedisStore(t)
	rs.lockTTL = time.Second
	rs.renewEvery = 10 * time.Millisecond
	ctx := context.Background()

	unlock, err := rs.Lock(ctx, "abc")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		mr.FastForward(600 * time.Millisecond)
		require.True(t, mr.Exists("test:lock:abc"), "lease expired while held")
		assert.Eventually(t, func() bool {
			return mr.TTL("test:lock:abc") == time.Second
		}, time.Second, 5*time.Millisecond)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = rs.Lock(waitCtx, "abc")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.False(t, mr.Exists("test:lock:abc"))
}

func TestRedisStoreStopsRenewingLostLease(t *testing.T) {
	rs, mr := newRedisStore(t)
	rs.lockTTL = time.Second
	rs.renewEvery = 10 * time.Millisecond

	unlock, err := rs.Lock(context.Background(), "abc")
	require.NoError(t, err)

	require.NoError(t, mr.Set("test:lock:abc", "someone-else"))
	time.Sleep(50 * time.Millisecond)
	unlock()

	got, err := mr.Get("test:lock:abc")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
