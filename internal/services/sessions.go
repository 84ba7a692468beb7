package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rht/casedesk/internal/wizard"
)

var (
	ErrSessionNotFound = errors.New("intake session not found")
	ErrSessionBusy     = errors.New("intake session is busy")
)

// lockTTL bounds how long one request may hold a session, including the insert
const lockTTL = time.Minute

// SessionStore parks intake sessions between requests
type SessionStore interface {
	Save(ctx context.Context, s *wizard.Session) error
	Load(ctx context.Context, id string) (*wizard.Session, error)
	// Lock claims the session for one request. It fails fast with
	// ErrSessionBusy instead of waiting.
	Lock(ctx context.Context, id string) (unlock func(), err error)
}

// RedisSessionStore keeps sessions as JSON with a sliding TTL
type RedisSessionStore struct {
	rdb    *redis.Client
	locker *redislock.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, locker: redislock.New(rdb), ttl: ttl}
}

func sessionKey(id string) string { return "intake:session:" + id }
func lockKey(id string) string    { return "intake:lock:" + id }

// Save writes the session and refreshes its expiry
func (r *RedisSessionStore) Save(ctx context.Context, s *wizard.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load reads a session, returning ErrSessionNotFound once it has expired
func (r *RedisSessionStore) Load(ctx context.Context, id string) (*wizard.Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s wizard.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Lock obtains a Redis lock shared by every instance of the server
func (r *RedisSessionStore) Lock(ctx context.Context, id string) (func(), error) {
	lock, err := r.locker.Obtain(ctx, lockKey(id), lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrSessionBusy
	}
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	return func() {
		// The request context may already be cancelled; release regardless.
		_ = lock.Release(context.Background())
	}, nil
}

// MemorySessionStore is the single-process SessionStore used when no Redis
// is configured
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	locked   map[string]bool
	ttl      time.Duration
	now      func() time.Time
}

type memorySession struct {
	data    []byte
	expires time.Time
}

// NewMemorySessionStore creates an in-process session store
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		locked:   make(map[string]bool),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Save stores an encoded copy so callers cannot mutate stored state
func (m *MemorySessionStore) Save(_ context.Context, s *wizard.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = memorySession{data: data, expires: m.now().Add(m.ttl)}
	return nil
}

// Load returns a fresh copy of the session
func (m *MemorySessionStore) Load(_ context.Context, id string) (*wizard.Session, error) {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	if ok && m.now().After(entry.expires) {
		delete(m.sessions, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	var s wizard.Session
	if err := json.Unmarshal(entry.data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Lock is a try-lock keyed by session id
func (m *MemorySessionStore) Lock(_ context.Context, id string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked[id] {
		return nil, ErrSessionBusy
	}
	m.locked[id] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.locked, id)
			m.mu.Unlock()
		})
	}, nil
}

// Sweep drops expired sessions and returns how many were removed
func (m *MemorySessionStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for id, entry := range m.sessions {
		if now.After(entry.expires) && !m.locked[id] {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
