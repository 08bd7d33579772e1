package pubsub

// Ref is the owning reference to a subscriber under the exclusive-owner
// discipline. The owner keeps the Ref; buses built with [New] or [NewPriority]
// hold only a non-owning handle derived from it.
//
// A Ref and every bus it is subscribed to must live in the same sequential
// execution context. For subscribers shared between goroutines, use
// [SharedRef] with a shared-discipline bus instead.
type Ref[T comparable, E Event[T]] struct {
	cell *refCell[T, E]
}

// NewRef wraps a subscriber in an owning reference.
func NewRef[T comparable, E Event[T]](sub Subscriber[T, E]) *Ref[T, E] {
	return &Ref[T, E]{cell: &refCell[T, E]{sub: sub}}
}

// Get returns the subscriber, or nil after Release.
func (r *Ref[T, E]) Get() Subscriber[T, E] {
	return r.cell.sub
}

// Release drops the subscriber. Every handle held by a bus becomes stale and
// is purged the next time a scan encounters it; no unsubscribe call is needed.
// Release is idempotent.
func (r *Ref[T, E]) Release() {
	r.cell.sub = nil
}

func (r *Ref[T, E]) handle() handle[T, E] {
	return r.cell
}

// refCell is the shared cell between a Ref and the handles derived from it.
// Releasing tombstones the cell rather than removing it, which is what lets
// handles detect staleness lazily.
type refCell[T comparable, E Event[T]] struct {
	sub Subscriber[T, E] // nil once released
}

func (c *refCell[T, E]) deliver(event E, _ bool) (Request, bool) {
	if c.sub == nil {
		return NoActionNeeded, false
	}
	return c.sub.OnEvent(event), true
}

func (c *refCell[T, E]) matches(id SubscriberID) (matched, stale bool) {
	if c.sub == nil {
		return false, true
	}
	return c.sub.ID() == id, false
}

func (c *refCell[T, E]) alive() bool {
	return c.sub != nil
}
