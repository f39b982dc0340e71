package concurrency

import (
	"sync"
)

// LockManager handles named locks
type LockManager struct {
	locks sync.Map
}

func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// TryAcquire locks key without waiting. The returned release func is nil
// when the key is already held.
func (lm *LockManager) TryAcquire(key string) (release func(), ok bool) {
	mu := lm.GetLock(key)
	if !mu.TryLock() {
		return nil, false
	}
	return mu.Unlock, true
}
