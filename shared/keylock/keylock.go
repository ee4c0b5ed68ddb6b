// Package keylock provides per-key mutual exclusion for check-then-write
// sections. Reservation operations lock the exhibitor id (appointments) or the
// booth id (assignments) so that two concurrent requests against the same
// resource cannot both pass their conflict check before either write lands.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *KeyLock {
	return &KeyLock{
		entries: map[string]*entry{},
	}
}

// Lock blocks until the key is exclusively held and returns the matching
// unlock function. Unlock must be called exactly once, typically via defer.
func (l *KeyLock) Lock(key string) (unlock func()) {
	l.mu.Lock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}

	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--

		if e.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}
