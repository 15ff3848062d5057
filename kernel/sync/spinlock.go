// Package sync provides the locking primitives used by code that may run
// both in normal and in interrupt context. There is no scheduler to yield
// to, so all locks busy-wait.
package sync

import "sync/atomic"

// attemptsBeforeYielding is the number of failed acquisition attempts after
// which Acquire invokes yieldFn (if set).
const attemptsBeforeYielding = 128

var (
	// yieldFn is nil in the kernel; tests substitute runtime.Gosched.
	yieldFn func()
)

// Spinlock implements a lock where each caller trying to acquire it
// busy-waits till the lock becomes available.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock can be acquired. Any attempt to re-acquire a
// lock already held by the same execution context will cause a deadlock.
func (l *Spinlock) Acquire() {
	var attempts uint32
	for !atomic.CompareAndSwapUint32(&l.state, 0, 1) {
		if attempts++; attempts == attemptsBeforeYielding {
			attempts = 0
			if yieldFn != nil {
				yieldFn()
			}
		}
	}
}

// TryToAcquire attempts to acquire the lock and returns true if the lock could
// be acquired or false otherwise.
func (l *Spinlock) TryToAcquire() bool {
	return atomic.CompareAndSwapUint32(&l.state, 0, 1)
}

// Release relinquishes a held lock allowing other callers to acquire it.
// Calling Release while the lock is free has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}

// Held returns true if the lock is currently acquired.
func (l *Spinlock) Held() bool {
	return atomic.LoadUint32(&l.state) == 1
}
