package idempotency

import "context"

// KeyLock serializes callers sharing an idempotency key. It is a
// one-slot semaphore so acquisition can be abandoned when a context ends.
type KeyLock struct {
	sem chan struct{}
}

func newKeyLock() *KeyLock {
	return &KeyLock{sem: make(chan struct{}, 1)}
}

func (l *KeyLock) Lock() {
	l.sem <- struct{}{}
}

// LockContext blocks until the lock is held or ctx is done. On a context
// error the lock is not held.
func (l *KeyLock) LockContext(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	default:
	}

	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *KeyLock) TryLock() bool {
	select {
	case l.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

func (l *KeyLock) Unlock() {
	select {
	case <-l.sem:
	default:
		panic("idempotency: unlock of unlocked KeyLock")
	}
}
