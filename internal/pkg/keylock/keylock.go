package keylock

import "sync"

// KeyLock provides per-key mutual exclusion. It is used to serialize the
// read-evaluate-write sequence of booking creation for a single room/day,
// so two concurrent requests cannot both pass the overlap check before
// either one commits. Locks for different keys do not contend.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyLock {
	return &KeyLock{
		locks: make(map[string]*entry),
	}
}

// Lock acquires the exclusive lock for key, blocking until it is available.
func (l *KeyLock) Lock(key string) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the lock for key. The entry is removed once no goroutine
// holds or waits for it, so the map does not grow with the key space.
func (l *KeyLock) Unlock(key string) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		l.mu.Unlock()
		panic("keylock: unlock of unheld key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}
