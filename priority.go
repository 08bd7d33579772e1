package pubsub

import (
	"cmp"

	"github.com/saylorsolutions/pubsub/structures/ordmap"
)

// priorityCore implements the priority channel registry shared by both
// disciplines: per category, an ordered map from priority key to a bucket of
// non-owning handles. Buckets are visited in ascending priority order; within
// a bucket, order is irrelevant.
type priorityCore[T comparable, E Event[T], P cmp.Ordered] struct {
	channels map[T]*ordmap.Map[P, []handle[T, E]]
}

func newPriorityCore[T comparable, E Event[T], P cmp.Ordered]() priorityCore[T, E, P] {
	return priorityCore[T, E, P]{channels: map[T]*ordmap.Map[P, []handle[T, E]]{}}
}

// subscribe appends a handle to the category's bucket for the priority,
// creating the bucket map and bucket lazily. No dedup, no scan.
func (c *priorityCore[T, E, P]) subscribe(h handle[T, E], category T, priority P) {
	buckets, ok := c.channels[category]
	if !ok {
		buckets = ordmap.New[P, []handle[T, E]]()
		c.channels[category] = buckets
	}
	list, _ := buckets.Get(priority)
	buckets.Set(priority, append(list, h))
}

// unsubscribe drills directly to the named bucket; other buckets are never
// searched. Scan, swap-remove, and stale purge work as in the flat registry,
// scoped to that one bucket. Reports whether a live match was removed.
func (c *priorityCore[T, E, P]) unsubscribe(id SubscriberID, category T, priority P) bool {
	buckets, ok := c.channels[category]
	if !ok {
		return false
	}
	list, ok := buckets.Get(priority)
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
	// An emptied bucket stays in place; only the bulk removal operations drop containers.
	buckets.Set(priority, list)
	return removed
}

func (c *priorityCore[T, E, P]) unsubscribeAll() {
	clear(c.channels)
}

func (c *priorityCore[T, E, P]) unsubscribeAllFromCategory(category T) {
	delete(c.channels, category)
}

func (c *priorityCore[T, E, P]) unsubscribeAllFromCategoryPrioritized(category T, priority P) {
	if buckets, ok := c.channels[category]; ok {
		buckets.Delete(priority)
	}
}

// dispatch visits the category's buckets in ascending priority order, running
// the request fold and stale purge per bucket. A Stopped result halts the
// remaining buckets immediately; otherwise the returned value is the result of
// the last bucket processed.
//
// Failure counts are not accumulated across buckets: three buckets finishing
// with one failure each report only the last bucket's count. Kept for
// compatibility with the established contract, though a total across buckets
// may be what callers expect.
func (c *priorityCore[T, E, P]) dispatch(event E, wait bool) Result {
	buckets, ok := c.channels[event.Category()]
	if !ok {
		return Result{Status: NotNeeded}
	}
	res := Result{Status: NotNeeded}
	for _, priority := range buckets.Keys() {
		list, ok := buckets.Get(priority)
		if !ok {
			continue
		}
		var cleanup bool
		res = runRequests(&list, func(h handle[T, E]) Request {
			req, alive := h.deliver(event, wait)
			if !alive {
				cleanup = true
			}
			return req
		})
		if cleanup {
			list = retainAlive(list)
		}
		buckets.Set(priority, list)
		if res.Status == Stopped {
			break
		}
	}
	return res
}

// PriorityBus is a priority channel registry under the exclusive-owner
// discipline. Subscribers register with a priority key; lower keys are
// delivered to first. See [Bus] for the discipline's sequential-context
// requirements, which apply here unchanged.
type PriorityBus[T comparable, E Event[T], P cmp.Ordered] struct {
	core priorityCore[T, E, P]
}

// NewPriority creates an empty exclusive-owner PriorityBus.
func NewPriority[T comparable, E Event[T], P cmp.Ordered]() *PriorityBus[T, E, P] {
	return &PriorityBus[T, E, P]{core: newPriorityCore[T, E, P]()}
}

// Subscribe registers the subscriber behind ref for events of the category, in
// the priority's bucket. Duplicate subscriptions are accepted, not merged.
func (b *PriorityBus[T, E, P]) Subscribe(ref *Ref[T, E], category T, priority P) {
	b.core.subscribe(ref.handle(), category, priority)
}

// Unsubscribe removes the subscriber with the given identity from exactly the
// named bucket, reporting whether a live match was found and removed.
func (b *PriorityBus[T, E, P]) Unsubscribe(id SubscriberID, category T, priority P) bool {
	return b.core.unsubscribe(id, category, priority)
}

// UnsubscribeAll removes every subscriber from the PriorityBus.
func (b *PriorityBus[T, E, P]) UnsubscribeAll() {
	b.core.unsubscribeAll()
}

// UnsubscribeAllFromCategory removes the category's whole bucket map.
func (b *PriorityBus[T, E, P]) UnsubscribeAllFromCategory(category T) {
	b.core.unsubscribeAllFromCategory(category)
}

// UnsubscribeAllFromCategoryPrioritized removes one bucket from the category.
func (b *PriorityBus[T, E, P]) UnsubscribeAllFromCategoryPrioritized(category T, priority P) {
	b.core.unsubscribeAllFromCategoryPrioritized(category, priority)
}

// Dispatch delivers the event bucket by bucket in ascending priority order and
// returns the last processed bucket's result. A subscriber stopping
// propagation stops all remaining buckets, not just its own.
func (b *PriorityBus[T, E, P]) Dispatch(event E) Result {
	return b.core.dispatch(event, false)
}

// SharedPriorityBus is a priority channel registry under the shared-owner
// discipline. See [SharedBus] for what the per-subscriber lock does and does
// not cover.
type SharedPriorityBus[T comparable, E Event[T], P cmp.Ordered] struct {
	core priorityCore[T, E, P]
}

// NewSharedPriority creates an empty shared-owner SharedPriorityBus.
func NewSharedPriority[T comparable, E Event[T], P cmp.Ordered]() *SharedPriorityBus[T, E, P] {
	return &SharedPriorityBus[T, E, P]{core: newPriorityCore[T, E, P]()}
}

// Subscribe registers the subscriber behind ref for events of the category, in
// the priority's bucket. Duplicate subscriptions are accepted, not merged.
func (b *SharedPriorityBus[T, E, P]) Subscribe(ref *SharedRef[T, E], category T, priority P) {
	b.core.subscribe(ref.handle(), category, priority)
}

// Unsubscribe removes the subscriber with the given identity from exactly the
// named bucket, reporting whether a live match was found and removed.
// A subscriber whose lock is held elsewhere cannot be identified and is skipped.
func (b *SharedPriorityBus[T, E, P]) Unsubscribe(id SubscriberID, category T, priority P) bool {
	return b.core.unsubscribe(id, category, priority)
}

// UnsubscribeAll removes every subscriber from the SharedPriorityBus.
func (b *SharedPriorityBus[T, E, P]) UnsubscribeAll() {
	b.core.unsubscribeAll()
}

// UnsubscribeAllFromCategory removes the category's whole bucket map.
func (b *SharedPriorityBus[T, E, P]) UnsubscribeAllFromCategory(category T) {
	b.core.unsubscribeAllFromCategory(category)
}

// UnsubscribeAllFromCategoryPrioritized removes one bucket from the category.
func (b *SharedPriorityBus[T, E, P]) UnsubscribeAllFromCategoryPrioritized(category T, priority P) {
	b.core.unsubscribeAllFromCategoryPrioritized(category, priority)
}

// Dispatch delivers the event in ascending priority order without waiting on
// any subscriber's lock; contended subscribers count as failed deliveries.
func (b *SharedPriorityBus[T, E, P]) Dispatch(event E) Result {
	return b.core.dispatch(event, false)
}

// DispatchBlocking delivers the event in ascending priority order, waiting for
// each subscriber's shared lock as needed.
func (b *SharedPriorityBus[T, E, P]) DispatchBlocking(event E) Result {
	return b.core.dispatch(event, true)
}
