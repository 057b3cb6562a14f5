// Package concurrency provides keyed mutual exclusion
package concurrency

import (
	"sync"
)

// KeyedMutex hands out one mutex per key. Callers holding different keys
// never wait on each other. Keys are never evicted, so the key space must be
// bounded (catalog keys are one per store).
type KeyedMutex struct {
	locks sync.Map
}

// NewKeyedMutex creates an empty KeyedMutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock blocks until key is free and returns the matching unlock
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
