package memory

import (
	"context"
	"sync"
)

// LockManager provides per-key mutual exclusion inside one process
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch      chan struct{}
	holders int // goroutines holding or waiting for the key
}

func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*keyLock)}
}

// Acquire obtains an exclusive lock on key. Blocks until acquired or ctx is done.
func (l *LockManager) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.holders++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.forget(key, kl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-kl.ch
			l.forget(key, kl)
		})
		return nil
	}, nil
}

func (l *LockManager) forget(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.holders--
	if kl.holders == 0 {
		delete(l.locks, key)
	}
}
