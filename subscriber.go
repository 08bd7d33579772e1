package pubsub

import "sync/atomic"

// SubscriberID is a process-unique, stable identity for a subscriber.
// It is an opaque token: buses only ever compare IDs for equality, and an ID
// must never be derived from a subscriber's content.
type SubscriberID uint64

var lastSubscriberID atomic.Uint64

// NextSubscriberID returns a SubscriberID that has not been handed out before
// in this process. Safe for concurrent use.
func NextSubscriberID() SubscriberID {
	return SubscriberID(lastSubscriberID.Add(1))
}

// Event is a value that can be dispatched through a bus.
// Category must be pure and side-effect free, and an event maps to exactly one category.
type Event[T comparable] interface {
	Category() T
}

// Subscriber receives events of category T from a bus.
//
// OnEvent may have arbitrary side effects but should return promptly; the bus
// does not time-box it. A panic in OnEvent is not contained by the bus and
// propagates to the dispatching caller.
type Subscriber[T comparable, E Event[T]] interface {
	ID() SubscriberID
	OnEvent(event E) Request
}
