package memoryengine

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
)

// sharedCapacity is the weight of an exclusive hold, each shared hold takes 1.
const sharedCapacity = 1 << 20

type keyedLock struct {
	sem  *semaphore.Weighted
	refs int
}

// keyedLocks hands out reader/writer locks by name and forgets names nobody holds or waits for.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*keyedLock)}
}

func weight(key eventstore.LockKey) int64 {
	if key.Exclusive {
		return sharedCapacity
	}

	return 1
}

// acquire takes all keys in the given order, or none if ctx ends first.
func (kl *keyedLocks) acquire(ctx context.Context, keys []eventstore.LockKey) (func(), error) {
	held := make([]eventstore.LockKey, 0, len(keys))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			kl.release(held[i])
		}
	}

	for _, key := range keys {
		lock := kl.ref(key.Name)

		if err := lock.sem.Acquire(ctx, weight(key)); err != nil {
			kl.unref(key.Name)
			release()

			return nil, err
		}

		held = append(held, key)
	}

	return release, nil
}

func (kl *keyedLocks) release(key eventstore.LockKey) {
	kl.mu.Lock()
	lock := kl.locks[key.Name]
	kl.mu.Unlock()

	lock.sem.Release(weight(key))
	kl.unref(key.Name)
}

func (kl *keyedLocks) ref(name string) *keyedLock {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	lock, ok := kl.locks[name]
	if !ok {
		lock = &keyedLock{sem: semaphore.NewWeighted(sharedCapacity)}
		kl.locks[name] = lock
	}

	lock.refs++

	return lock
}

func (kl *keyedLocks) unref(name string) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	lock := kl.locks[name]
	lock.refs--

	if lock.refs == 0 {
		delete(kl.locks, name)
	}
}

func (kl *keyedLocks) size() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	return len(kl.locks)
}
