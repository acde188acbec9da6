package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fadilmartias/interview-engine/internal/interview"
)

const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

const renewScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`

const (
	defaultLockTTL   = 2 * time.Minute
	lockPollInterval = 50 * time.Millisecond
)

// RedisStore keeps sessions as JSON blobs so they survive process restarts
// and can be shared by several replicas.
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	lockTTL time.Duration

	// renewEvery is how often a held lease is pushed back out to lockTTL.
	renewEvery time.Duration
	unlock     *redis.Script
	renew      *redis.Script
}

func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "interview"
	}
	return &RedisStore{
		client:     client,
		prefix:     prefix,
		ttl:        ttl,
		lockTTL:    defaultLockTTL,
		renewEvery: defaultLockTTL / 3,
		unlock:     redis.NewScript(unlockScript),
		renew:      redis.NewScript(renewScript),
	}
}

func (r *RedisStore) sessionKey(id string) string {
	return r.prefix + ":session:" + id
}

func (r *RedisStore) lockKey(id string) string {
	return r.prefix + ":lock:" + id
}

func (r *RedisStore) Create(ctx context.Context, s *interview.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ok, err := r.client.SetNX(ctx, r.sessionKey(s.SessionID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("create session %s: %w", s.SessionID, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", interview.ErrSessionExists, s.SessionID)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*interview.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", interview.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	var s interview.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &s, nil
}

// Save overwrites an existing session and refreshes its TTL.
func (r *RedisStore) Save(ctx context.Context, s *interview.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ok, err := r.client.SetXX(ctx, r.sessionKey(s.SessionID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("save session %s: %w", s.SessionID, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", interview.ErrSessionNotFound, s.SessionID)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// Lock takes a SET NX lease on the session, polling until ctx is done.
// While held the lease is renewed in the background, so a slow LLM call
// cannot outlive it. The lease still expires on its own if the holder dies.
func (r *RedisStore) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := r.lockKey(sessionID)
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.lockTTL).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			return nil, fmt.Errorf("lock session %s: %w", sessionID, err)
		}
		if ok {
			break
		}
		timer := time.NewTimer(lockPollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("lock session %s: %w", sessionID, ctx.Err())
		case <-timer.C:
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.keepAlive(sessionID, key, token, stop)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := r.unlock.Run(ctx, r.client, []string{key}, token).Err(); err != nil {
				slog.Warn("release session lock", "session_id", sessionID, "error", err)
			}
		})
	}, nil
}

// keepAlive extends the lease every renewEvery until stop is closed or the
// lease is no longer ours.
func (r *RedisStore) keepAlive(sessionID, key, token string, stop <-chan struct{}) {
	ticker := time.NewTicker(r.renewEvery)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		n, err := r.renew.Run(ctx, r.client, []string{key}, token, r.lockTTL.Milliseconds()).Int()
		cancel()
		if err != nil {
			slog.Warn("renew session lock", "session_id", sessionID, "error", err)
			continue
		}
		if n == 0 {
			slog.Warn("session lock lease lost", "session_id", sessionID)
			return
		}
	}
}
