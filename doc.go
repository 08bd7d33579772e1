/*
Package pubsub provides a synchronous, in-process publish/subscribe engine with typed categories.
Publishers and subscribers never hold references to each other; a bus mediates between them.

# Bus Primitives

Every event implements [Event] by reporting the single category it belongs to.
Categories are plain comparable values, usually an enum defined by the embedding application.
Subscribers implement [Subscriber] with a stable [SubscriberID] and an OnEvent method.

OnEvent returns a [Request] telling the bus what to do next: keep going, unsubscribe the
subscriber, stop propagating the event, or report a failed delivery. The bus folds these
into a single [Result] returned to the publisher.

# Registries

Two registry shapes are provided:

  - [Bus] and [SharedBus] keep one flat channel of subscribers per category.
  - [PriorityBus] and [SharedPriorityBus] segment each category into priority buckets,
    visited in ascending priority order during dispatch.

All dispatching happens synchronously on the caller's goroutine. There are no internal
goroutines and no queues.

# Ownership

A bus never keeps a subscriber alive. The owner of a subscriber wraps it in a [Ref]
(or [SharedRef] for the shared discipline) and keeps that reference; the bus holds only a
non-owning handle. Calling Release on the reference makes every handle to it stale.
Stale handles are detected lazily during unsubscribe scans and dispatch traversals and are
purged at that point. There is no background sweep.

# Concurrency Disciplines

The discipline is chosen at construction time:

  - [New] and [NewPriority] build exclusive-owner buses. Subscribers are invoked directly
    with no locking. The whole registry is assumed to live in one sequential execution
    context; callers needing more must serialize access externally.
  - [NewShared] and [NewSharedPriority] build shared-owner buses. Each subscriber is
    guarded by a reader/writer lock shared with its owner. Dispatch attempts the read
    lock without waiting and counts contended subscribers as failed deliveries;
    DispatchBlocking waits for each subscriber's lock instead.

The shared discipline guards subscriber access only. The registry's own maps are never
locked internally, so concurrent mutation of the registry itself must still be serialized
by the embedding application.

# Publishing

[Publisher] and [BlockingPublisher] are one-line conveniences that forward to Dispatch and
DispatchBlocking respectively. Publishing through a shared bus conventionally blocks to
maximize delivery; latency-sensitive callers use the non-blocking Dispatch directly and
apply their own retry policy.
*/
package pubsub
