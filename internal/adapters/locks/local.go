package locks

import (
	"context"
	"sync"
	"time"
)

// LocalLocker is a process-local ports.Locker. Sufficient when a single
// server process owns the pipeline; use RedisLocker otherwise.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time)}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if expiry, ok := l.held[key]; ok && time.Now().Before(expiry) {
		return false, nil
	}
	l.held[key] = time.Now().Add(ttl)
	return true, nil
}

func (l *LocalLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
