// Package syncx provides small helpers for running closures under a lock,
// so lock/unlock pairing never depends on control flow in the caller.
package syncx

import "sync"

func LockFunc(mux sync.Locker, fn func()) {
	mux.Lock()
	defer mux.Unlock()
	fn()
}

func LockFuncT[T any](mux sync.Locker, fn func() T) T {
	mux.Lock()
	defer mux.Unlock()
	return fn()
}

type RLocker interface {
	RLock()
	RUnlock()
}

func RLockFunc(mux RLocker, fn func()) {
	mux.RLock()
	defer mux.RUnlock()
	fn()
}

func RLockFuncT[T any](mux RLocker, fn func() T) T {
	mux.RLock()
	defer mux.RUnlock()
	return fn()
}

// TryRLocker is satisfied by [sync.RWMutex].
type TryRLocker interface {
	TryRLock() bool
	RUnlock()
}

// TryRLockFunc runs fn under a shared lock if it can be acquired without
// waiting, reporting whether fn ran.
func TryRLockFunc(mux TryRLocker, fn func()) bool {
	if !mux.TryRLock() {
		return false
	}
	defer mux.RUnlock()
	fn()
	return true
}

// TryRLockFuncT is [TryRLockFunc] for closures returning a value.
// The zero value is returned when the lock could not be acquired.
func TryRLockFuncT[T any](mux TryRLocker, fn func() T) (T, bool) {
	if !mux.TryRLock() {
		var zero T
		return zero, false
	}
	defer mux.RUnlock()
	return fn(), true
}
