package storage

import "sync"

// KeyedMutex provides an advisory lock per identifier, created on demand.
// The document store has no coordination primitive of its own, so the
// repositories take one of these around every read-modify-write sequence:
// two concurrent mutations of the same document serialize, while
// operations on distinct identifiers proceed independently.
//
// Locks are never released from the map. The key space is bounded by the
// number of live identifiers plus a handful of collection-level keys, so
// the footprint stays negligible for this system's expected record counts.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutex for key, creating it if needed.
func (k *KeyedMutex) Lock(key string) {
	k.get(key).Lock()
}

// Unlock releases the mutex for key.
func (k *KeyedMutex) Unlock(key string) {
	k.get(key).Unlock()
}

func (k *KeyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
