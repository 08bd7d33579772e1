package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// holdLock grabs exclusive access to the subscriber behind ref on another
// goroutine and keeps it until the returned release func is called.
func holdLock(t *testing.T, ref *SharedRef[testCategory, testEvent]) (release func()) {
	t.Helper()
	locked := make(chan struct{})
	releaseCh := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ref.Update(func(Subscriber[testCategory, testEvent]) {
			close(locked)
			<-releaseCh
		})
	}()
	<-locked
	return func() {
		close(releaseCh)
		<-done
	}
}

func TestSharedBus_Dispatch_AllSubscribersInvoked(t *testing.T) {
	bus := NewShared[testCategory, testEvent]()
	subs := make([]*testSubscriber, 3)
	for i := range subs {
		ref, sub := newSharedRef(NoActionNeeded)
		subs[i] = sub
		bus.Subscribe(ref, catInput)
	}

	assert.Equal(t, Result{Status: Finished}, bus.Dispatch(testEvent{category: catInput}))
	assert.Equal(t, Result{Status: Finished}, bus.DispatchBlocking(testEvent{category: catInput}))
	for _, sub := range subs {
		assert.Equal(t, 2, sub.calls())
	}
}

func TestSharedBus_Dispatch_NoChannel(t *testing.T) {
	bus := NewShared[testCategory, testEvent]()
	assert.Equal(t, Result{Status: NotNeeded}, bus.Dispatch(testEvent{category: catInput}))
	assert.Equal(t, Result{Status: NotNeeded}, bus.DispatchBlocking(testEvent{category: catInput}))
}

func TestSharedBus_Dispatch_ContentionCountsAsFailure(t *testing.T) {
	bus := NewShared[testCategory, testEvent]()
	busyRef, busySub := newSharedRef(NoActionNeeded)
	idleRef, idleSub := newSharedRef(NoActionNeeded)
	bus.Subscribe(busyRef, catInput)
	bus.Subscribe(idleRef, catInput)

	release := holdLock(t, busyRef)
	res := bus.Dispatch(testEvent{category: catInput})
	assert.Equal(t, Result{Status: FinishedWithFailures, Failures: 1}, res)
	assert.Zero(t, busySub.calls(), "the contended subscriber is skipped, not waited on")
	assert.Equal(t, 1, idleSub.calls(), "other subscribers still receive the event")
	release()

	// The failed subscriber stays registered and receives later dispatches.
	assert.Equal(t, Result{Status: Finished}, bus.Dispatch(testEvent{category: catInput}))
	assert.Equal(t, 1, busySub.calls())
}

func TestSharedBus_DispatchBlocking_WaitsForLock(t *testing.T) {
	bus := NewShared[testCategory, testEvent]()
	ref, sub := newSharedRef(NoActionNeeded)
	bus.Subscribe(ref, catInput)

	release := holdLock(t, ref)
	results := make(chan Result, 1)
	go func() {
		results <- bus.DispatchBlocking(testEvent{category: catInput})
	}()

	select {
	case res := <-results:
		t.Fatalf("blocking dispatch should wait for the lock, got %v", res)
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case res := <-results:
		assert.Equal(t, Result{Status: Finished}, res)
	case <-time.After(time.Second):
		t.Fatal("blocking dispatch never completed after the lock was released")
	}
	assert.Equal(t, 1, sub.calls())
}

func TestSharedBus_Dispatch_ReleasedSubscriberSkippedAndPurged(t *testing.T) {
	bus := NewShared[testCategory, testEvent]()
	staleRef, staleSub := newSharedRef(NoActionNeeded)
	liveRef, liveSub := newSharedRef(NoActionNeeded)
	bus.Subscribe(staleRef, catInput)
	bus.Subscribe(liveRef, catInput)

	staleRef.Release()
	res := bus.Dispatch(testEvent{category: catInput})
	assert.Equal(t, Result{Status: Finished}, res, "a stale handle is not a delivery failure")
	assert.Zero(t, staleSub.calls())
	assert.Equal(t, 1, liveSub.calls())
	assert.Len(t, bus.core.channels[catInput], 1)
}

func TestSharedBus_Unsubscribe(t *testing.T) {
	bus := NewShared[testCategory, testEvent]()
	ref, sub := newSharedRef(NoActionNeeded)
	bus.Subscribe(ref, catInput)

	bus.Unsubscribe(sub.ID(), catInput)
	assert.Equal(t, Result{Status: Finished}, bus.Dispatch(testEvent{category: catInput}))
	assert.Zero(t, sub.calls())
}

func TestSharedBus_Unsubscribe_SkipsLockedSubscriber(t *testing.T) {
	bus := NewShared[testCategory, testEvent]()
	ref, sub := newSharedRef(NoActionNeeded)
	bus.Subscribe(ref, catInput)

	// A subscriber whose lock is held can't be identified, so it is not removed.
	release := holdLock(t, ref)
	bus.Unsubscribe(sub.ID(), catInput)
	release()

	assert.Equal(t, Result{Status: Finished}, bus.Dispatch(testEvent{category: catInput}))
	assert.Equal(t, 1, sub.calls(), "the subscriber should still be registered")
}

func TestSharedRef_UpdateAndView(t *testing.T) {
	ref, sub := newSharedRef(NoActionNeeded)

	var seen Subscriber[testCategory, testEvent]
	ref.Update(func(s Subscriber[testCategory, testEvent]) {
		seen = s
	})
	assert.Equal(t, Subscriber[testCategory, testEvent](sub), seen)

	viewed := false
	ref.View(func(Subscriber[testCategory, testEvent]) {
		viewed = true
	})
	assert.True(t, viewed)

	ref.Release()
	called := false
	ref.Update(func(Subscriber[testCategory, testEvent]) { called = true })
	ref.View(func(Subscriber[testCategory, testEvent]) { called = true })
	assert.False(t, called, "owner access after Release should not observe a subscriber")
}

func TestSharedPriorityBus_Dispatch_AscendingOrderAndBlocking(t *testing.T) {
	bus := NewSharedPriority[testCategory, testEvent, int]()
	var order []int
	for _, priority := range []int{2, 1} {
		priority := priority
		sub := newTestSubscriber(NoActionNeeded)
		sub.onEvent = func(testEvent) Request {
			order = append(order, priority)
			return NoActionNeeded
		}
		bus.Subscribe(NewSharedRef[testCategory, testEvent](sub), catInput, priority)
	}

	assert.Equal(t, Result{Status: Finished}, bus.DispatchBlocking(testEvent{category: catInput}))
	assert.Equal(t, []int{1, 2}, order)
}

func TestSharedPriorityBus_Dispatch_ContentionFailureInBucket(t *testing.T) {
	bus := NewSharedPriority[testCategory, testEvent, int]()
	busyRef, busySub := newSharedRef(NoActionNeeded)
	idleRef, idleSub := newSharedRef(NoActionNeeded)
	bus.Subscribe(busyRef, catInput, 1)
	bus.Subscribe(idleRef, catInput, 2)

	release := holdLock(t, busyRef)
	res := bus.Dispatch(testEvent{category: catInput})
	release()

	// Bucket 1 finished with a failure, but bucket 2's clean result is what
	// gets reported. Documented last-bucket-wins behavior.
	assert.Equal(t, Result{Status: Finished}, res)
	assert.Zero(t, busySub.calls())
	assert.Equal(t, 1, idleSub.calls())
}

func TestSharedPriorityBus_Unsubscribe(t *testing.T) {
	bus := NewSharedPriority[testCategory, testEvent, int]()
	ref, sub := newSharedRef(NoActionNeeded)
	bus.Subscribe(ref, catInput, 1)

	require.False(t, bus.Unsubscribe(sub.ID(), catInput, 2))
	require.True(t, bus.Unsubscribe(sub.ID(), catInput, 1))
	assert.Equal(t, Result{Status: Finished}, bus.Dispatch(testEvent{category: catInput}))
	assert.Zero(t, sub.calls())
}
