package pubsub

// busCore implements the flat channel registry shared by both disciplines:
// one unordered list of non-owning handles per category.
type busCore[T comparable, E Event[T]] struct {
	channels map[T][]handle[T, E]
}

func newBusCore[T comparable, E Event[T]]() busCore[T, E] {
	return busCore[T, E]{channels: map[T][]handle[T, E]{}}
}

// subscribe appends a handle to the category's channel, creating the channel
// on first use. Duplicate subscriptions are accepted, not merged, and no scan
// happens here; stale handles are only ever detected by unsubscribe and dispatch.
func (c *busCore[T, E]) subscribe(h handle[T, E], category T) {
	c.channels[category] = append(c.channels[category], h)
}

// unsubscribe scans the category's channel for the first live handle with the
// given identity and swap-removes it. Any stale handle seen during the scan
// triggers a purge of the whole channel afterward, including one the
// swap-remove itself may have relocated.
func (c *busCore[T, E]) unsubscribe(id SubscriberID, category T) bool {
	list, ok := c.channels[category]
	if !ok {
		return false
	}
	var cleanup, removed bool
	for i := 0; i < len(list); i++ {
		matched, stale := list[i].matches(id)
		if stale {
			cleanup = true
			continue
		}
		if matched {
			swapRemove(&list, i)
			removed = true
			break
		}
	}
	if cleanup {
		list = retainAlive(list)
	}
	c.channels[category] = list
	return removed
}

// unsubscribeAll removes every channel. The map allocation is kept for reuse.
func (c *busCore[T, E]) unsubscribeAll() {
	clear(c.channels)
}

// unsubscribeAllFromCategory drops the category's channel entirely.
// A later dispatch to the category reports NotNeeded, unlike a channel merely
// emptied by unsubscribes, which reports Finished.
func (c *busCore[T, E]) unsubscribeAllFromCategory(category T) {
	delete(c.channels, category)
}

// dispatch resolves the event's category to a channel and folds every
// subscriber's request into the aggregate result, purging stale handles
// encountered along the way.
func (c *busCore[T, E]) dispatch(event E, wait bool) Result {
	category := event.Category()
	list, ok := c.channels[category]
	if !ok {
		return Result{Status: NotNeeded}
	}
	var cleanup bool
	res := runRequests(&list, func(h handle[T, E]) Request {
		req, alive := h.deliver(event, wait)
		if !alive {
			cleanup = true
		}
		return req
	})
	if cleanup {
		list = retainAlive(list)
	}
	c.channels[category] = list
	return res
}

// Bus is a flat channel registry under the exclusive-owner discipline:
// subscribers are invoked directly with no locking.
//
// A Bus is not safe for concurrent use from multiple goroutines. It assumes
// the registry, its subscribers, and their owners all live in one sequential
// execution context; embedders needing more must wrap the whole Bus in their
// own exclusive lock.
type Bus[T comparable, E Event[T]] struct {
	core busCore[T, E]
}

// New creates an empty exclusive-owner Bus.
func New[T comparable, E Event[T]]() *Bus[T, E] {
	return &Bus[T, E]{core: newBusCore[T, E]()}
}

// Subscribe registers the subscriber behind ref for events of the category.
// Subscribing the same ref twice delivers each event to it twice.
func (b *Bus[T, E]) Subscribe(ref *Ref[T, E], category T) {
	b.core.subscribe(ref.handle(), category)
}

// Unsubscribe removes the first subscriber with the given identity from the
// category's channel. Removing an identity that was never subscribed is a no-op.
// Stale handles encountered during the scan are purged as a side effect.
func (b *Bus[T, E]) Unsubscribe(id SubscriberID, category T) {
	b.core.unsubscribe(id, category)
}

// UnsubscribeAll removes every subscriber from the Bus.
func (b *Bus[T, E]) UnsubscribeAll() {
	b.core.unsubscribeAll()
}

// UnsubscribeAllFromCategory removes the category's channel entirely.
func (b *Bus[T, E]) UnsubscribeAllFromCategory(category T) {
	b.core.unsubscribeAllFromCategory(category)
}

// Dispatch delivers the event to every subscriber of its category, honoring
// each subscriber's Request, and returns the aggregate result.
// With no channel registered for the category, the result is NotNeeded.
func (b *Bus[T, E]) Dispatch(event E) Result {
	return b.core.dispatch(event, false)
}

// SharedBus is a flat channel registry under the shared-owner discipline:
// each subscriber is guarded by the reader/writer lock it shares with its
// [SharedRef] owner.
//
// Only subscriber access is locked. Calls into the SharedBus itself must still
// be serialized externally if the registry is mutated from multiple goroutines.
type SharedBus[T comparable, E Event[T]] struct {
	core busCore[T, E]
}

// NewShared creates an empty shared-owner SharedBus.
func NewShared[T comparable, E Event[T]]() *SharedBus[T, E] {
	return &SharedBus[T, E]{core: newBusCore[T, E]()}
}

// Subscribe registers the subscriber behind ref for events of the category.
// Subscribing the same ref twice delivers each event to it twice.
func (b *SharedBus[T, E]) Subscribe(ref *SharedRef[T, E], category T) {
	b.core.subscribe(ref.handle(), category)
}

// Unsubscribe removes the first subscriber with the given identity from the
// category's channel. A subscriber whose lock is held elsewhere cannot be
// identified and is skipped, not removed.
func (b *SharedBus[T, E]) Unsubscribe(id SubscriberID, category T) {
	b.core.unsubscribe(id, category)
}

// UnsubscribeAll removes every subscriber from the SharedBus.
func (b *SharedBus[T, E]) UnsubscribeAll() {
	b.core.unsubscribeAll()
}

// UnsubscribeAllFromCategory removes the category's channel entirely.
func (b *SharedBus[T, E]) UnsubscribeAllFromCategory(category T) {
	b.core.unsubscribeAllFromCategory(category)
}

// Dispatch delivers the event without waiting on any subscriber's lock.
// Each subscriber whose lock is contended counts as one failed delivery in the
// result, and the caller never blocks.
func (b *SharedBus[T, E]) Dispatch(event E) Result {
	return b.core.dispatch(event, false)
}

// DispatchBlocking delivers the event, waiting for each subscriber's shared
// lock as needed. There is no timeout; callers wanting a bounded wait should
// use Dispatch and retry with their own backoff policy.
func (b *SharedBus[T, E]) DispatchBlocking(event E) Result {
	return b.core.dispatch(event, true)
}
