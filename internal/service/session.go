package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionTTL matches the 30-day cookie lifetime
	SessionTTL = 30 * 24 * time.Hour

	sessionKeyPrefix = "session:"
	sweepInterval    = time.Hour
)

// SessionStore maps opaque tokens to user identities server-side. Tokens
// expire after SessionTTL; Destroy is idempotent and safe on tokens that
// are already gone.
type SessionStore interface {
	Create(ctx context.Context, userID uint) (string, error)
	Resolve(ctx context.Context, token string) (uint, bool, error)
	Destroy(ctx context.Context, token string) error
}

// newSessionToken returns 32 random bytes, base64url-encoded
func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

// RedisSessionStore keeps sessions in Redis. SET with expiry gives the
// insert and the TTL atomically, and Redis handles the expiry sweep.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a Redis-backed session store
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Create(ctx context.Context, userID uint) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}
	key := sessionKeyPrefix + token
	if err := s.client.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), SessionTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (uint, bool, error) {
	if token == "" {
		return 0, false, nil
	}
	value, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return uint(userID), true, nil
}

func (s *RedisSessionStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}

type memorySession struct {
	userID    uint
	expiresAt time.Time
}

// MemorySessionStore is the in-process fallback used in tests and when no
// Redis is configured. A janitor goroutine sweeps expired entries
// periodically; Resolve also checks expiry so a stale entry is never
// returned between sweeps.
type MemorySessionStore struct {
	mu      sync.Mutex
	entries map[string]memorySession
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// NewMemorySessionStore creates an in-memory session store and starts its
// sweep loop. Call Close to stop the sweeper.
func NewMemorySessionStore() *MemorySessionStore {
	s := &MemorySessionStore{
		entries: make(map[string]memorySession),
		ttl:     SessionTTL,
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *MemorySessionStore) Create(ctx context.Context, userID uint) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.entries[token] = memorySession{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

func (s *MemorySessionStore) Resolve(ctx context.Context, token string) (uint, bool, error) {
	if token == "" {
		return 0, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[token]
	if !ok {
		return 0, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, token)
		return 0, false, nil
	}
	return entry.userID, true, nil
}

func (s *MemorySessionStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

// Close stops the sweep goroutine
func (s *MemorySessionStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemorySessionStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for token, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
