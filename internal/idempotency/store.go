// Package idempotency holds the process-local idempotency state: committed
// charge records and the per-key locks that serialize attempts.
package idempotency

import (
	"sync"
	"time"

	"github.com/mirola777/idempotent-charges/internal/domain"
)

// Store maps idempotency keys to committed records. Records are written
// only by the holder of the key's lock; the lock registry is shared by
// every caller and has its own guard, held for the map lookup only.
type Store struct {
	recordsMu sync.RWMutex
	records   map[string]domain.IdempotencyRecord

	locksMu sync.Mutex
	locks   map[string]*KeyLock

	ttl time.Duration
	now func() time.Time
}

type Option func(*Store)

// WithTTL makes records invisible once they are older than ttl. Zero keeps
// records for the lifetime of the store.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		records: make(map[string]domain.IdempotencyRecord),
		locks:   make(map[string]*KeyLock),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(key string) (domain.IdempotencyRecord, bool) {
	s.recordsMu.RLock()
	defer s.recordsMu.RUnlock()

	record, ok := s.records[key]
	if !ok || s.expired(record) {
		return domain.IdempotencyRecord{}, false
	}
	return record, true
}

// Put commits record under record.Key unless a live record already exists,
// in which case the existing record is kept. It reports whether record was
// stored.
func (s *Store) Put(record domain.IdempotencyRecord) bool {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}

	s.recordsMu.Lock()
	defer s.recordsMu.Unlock()

	if existing, ok := s.records[record.Key]; ok && !s.expired(existing) {
		return false
	}
	s.records[record.Key] = record
	return true
}

// LockFor returns the lock for key, creating it on first use. Every caller
// passing the same key receives the same *KeyLock.
func (s *Store) LockFor(key string) *KeyLock {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = newKeyLock()
		s.locks[key] = lock
	}
	return lock
}

// DeleteExpired removes records older than the TTL and returns how many
// were removed. Locks are kept.
func (s *Store) DeleteExpired() int {
	if s.ttl <= 0 {
		return 0
	}

	s.recordsMu.Lock()
	defer s.recordsMu.Unlock()

	removed := 0
	for key, record := range s.records {
		if s.expired(record) {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.recordsMu.RLock()
	defer s.recordsMu.RUnlock()
	return len(s.records)
}

func (s *Store) expired(record domain.IdempotencyRecord) bool {
	return s.ttl > 0 && s.now().Sub(record.CreatedAt) >= s.ttl
}
