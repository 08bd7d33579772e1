package pubsub

// handle is a registry's non-owning view of a subscriber.
// A handle never extends the subscriber's lifetime; once the owner releases the
// subscriber the handle is stale and only reports that fact.
type handle[T comparable, E Event[T]] interface {
	// deliver attempts to invoke the subscriber with the event.
	// A false alive return means the handle was stale; the reported Request is
	// then NoActionNeeded, since a dead subscriber is a cleanup candidate and
	// not a delivery failure. When wait is true the shared discipline blocks
	// for the subscriber's lock instead of failing on contention.
	deliver(event E, wait bool) (req Request, alive bool)

	// matches reports whether the live subscriber behind this handle has the
	// given identity. stale is set instead when the subscriber is gone.
	// A shared-discipline handle whose lock is contended reports neither.
	matches(id SubscriberID) (matched, stale bool)

	// alive reports whether the subscriber can still be reached, without invoking it.
	alive() bool
}

// runRequests offers an event to every entry of a channel in index order,
// folding the per-subscriber requests into one aggregate result.
//
// Removal uses swap-remove, so entry order within a channel is not preserved
// and the index does not advance after a removal: the swapped-in entry is
// processed next. DoNotPropagate variants return immediately, leaving the
// remaining entries unvisited for this call.
func runRequests[H any](entries *[]H, attempt func(H) Request) Result {
	var (
		idx      int
		failures int
	)
	for idx < len(*entries) {
		switch attempt((*entries)[idx]) {
		case Unsubscribe:
			swapRemove(entries, idx)
		case DoNotPropagate:
			return Result{Status: Stopped}
		case UnsubscribeAndDoNotPropagate:
			swapRemove(entries, idx)
			return Result{Status: Stopped}
		case DispatchFailed:
			failures++
			idx++
		default:
			// NoActionNeeded, and anything unrecognized.
			idx++
		}
	}
	if failures > 0 {
		return Result{Status: FinishedWithFailures, Failures: failures}
	}
	return Result{Status: Finished}
}

// swapRemove removes entries[idx] by moving the last entry into its place.
// O(1), order not preserved.
func swapRemove[H any](entries *[]H, idx int) {
	list := *entries
	last := len(list) - 1
	list[idx] = list[last]
	var zero H
	list[last] = zero
	*entries = list[:last]
}

// retainAlive filters a channel down to handles whose subscribers are still reachable.
// Run after any scan that flagged a stale handle; order is preserved here since
// nothing depends on it either way.
func retainAlive[T comparable, E Event[T]](list []handle[T, E]) []handle[T, E] {
	kept := list[:0]
	for _, h := range list {
		if h.alive() {
			kept = append(kept, h)
		}
	}
	clear(list[len(kept):])
	return kept
}
