package pubsub

import (
	"sync"

	"github.com/saylorsolutions/pubsub/syncx"
)

// SharedRef is the owning reference to a subscriber under the shared-owner
// discipline. The subscriber may be used by multiple goroutines; every access
// through the SharedRef or through a shared-discipline bus goes through one
// reader/writer lock.
//
// Note that the lock guards the subscriber only. Shared buses still leave
// registry mutation (Subscribe, Unsubscribe, Dispatch on the same bus value)
// to be serialized externally.
type SharedRef[T comparable, E Event[T]] struct {
	cell *sharedCell[T, E]
}

// NewSharedRef wraps a subscriber in a lock-guarded owning reference.
func NewSharedRef[T comparable, E Event[T]](sub Subscriber[T, E]) *SharedRef[T, E] {
	return &SharedRef[T, E]{cell: &sharedCell[T, E]{sub: sub}}
}

// Update runs fn with exclusive access to the subscriber.
// Dispatch attempts against this subscriber fail (non-blocking) or wait
// (blocking) while fn runs. fn is not called after Release.
func (r *SharedRef[T, E]) Update(fn func(sub Subscriber[T, E])) {
	syncx.LockFunc(&r.cell.mu, func() {
		if r.cell.sub != nil {
			fn(r.cell.sub)
		}
	})
}

// View runs fn with shared access to the subscriber.
// fn is not called after Release.
func (r *SharedRef[T, E]) View(fn func(sub Subscriber[T, E])) {
	syncx.RLockFunc(&r.cell.mu, func() {
		if r.cell.sub != nil {
			fn(r.cell.sub)
		}
	})
}

// Release drops the subscriber, waiting for in-flight accesses to finish.
// Every handle held by a bus becomes stale and is purged the next time a scan
// encounters it. Release is idempotent.
func (r *SharedRef[T, E]) Release() {
	syncx.LockFunc(&r.cell.mu, func() {
		r.cell.sub = nil
	})
}

func (r *SharedRef[T, E]) handle() handle[T, E] {
	return r.cell
}

// sharedCell is the lock-guarded cell shared between a SharedRef and the
// handles derived from it.
type sharedCell[T comparable, E Event[T]] struct {
	mu  sync.RWMutex
	sub Subscriber[T, E] // nil once released
}

func (c *sharedCell[T, E]) deliver(event E, wait bool) (Request, bool) {
	var (
		req   Request
		alive bool
	)
	attempt := func() Request {
		if c.sub == nil {
			return NoActionNeeded
		}
		alive = true
		return c.sub.OnEvent(event)
	}
	if wait {
		req = syncx.RLockFuncT(&c.mu, attempt)
		return req, alive
	}
	req, acquired := syncx.TryRLockFuncT(&c.mu, attempt)
	if !acquired {
		// Another owner holds the subscriber and the caller asked not to wait.
		// The subscriber stays registered; this attempt just failed.
		return DispatchFailed, true
	}
	return req, alive
}

func (c *sharedCell[T, E]) matches(id SubscriberID) (matched, stale bool) {
	matched, acquired := syncx.TryRLockFuncT(&c.mu, func() bool {
		if c.sub == nil {
			stale = true
			return false
		}
		return c.sub.ID() == id
	})
	if !acquired {
		// Can't identify a subscriber without its lock. Skip it; it is
		// neither a match nor provably stale.
		return false, false
	}
	return matched, stale
}

func (c *sharedCell[T, E]) alive() bool {
	live, acquired := syncx.TryRLockFuncT(&c.mu, func() bool {
		return c.sub != nil
	})
	if !acquired {
		// Retain contended entries; staleness is rechecked on the next scan.
		return true
	}
	return live
}
