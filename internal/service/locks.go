package service

import "sync"

// keyedLocks hands out one mutex per key, used to serialize per-session
// question numbering and per-player stats updates. Locks are never
// reclaimed; the set of live keys is small and bounded by active games.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}

// Lock acquires the mutex for key
func (k *keyedLocks) Lock(key string) {
	k.get(key).Lock()
}

// Unlock releases the mutex for key
func (k *keyedLocks) Unlock(key string) {
	k.get(key).Unlock()
}
