package usecase

import "sync"

// dateLocker hands out one mutex per calendar date. Entries are reference
// counted and removed once nobody holds or waits on them.
type dateLocker struct {
	mu    sync.Mutex
	locks map[string]*dateLock
}

type dateLock struct {
	mu   sync.Mutex
	refs int
}

func newDateLocker() *dateLocker {
	return &dateLocker{locks: make(map[string]*dateLock)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (l *dateLocker) Lock(key string) func() {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &dateLock{}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (l *dateLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
