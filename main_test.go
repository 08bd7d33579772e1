package pubsub

import (
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testCategory int

const (
	catInput testCategory = iota
	catWindow
	catAudio
)

type testEvent struct {
	category testCategory
	payload  string
}

func (e testEvent) Category() testCategory {
	return e.category
}

// testSubscriber answers every event with a fixed Request, or defers to
// onEvent when set. The call counter is atomic so shared-discipline tests can
// read it across goroutines.
type testSubscriber struct {
	id      SubscriberID
	handled atomic.Int32
	respond Request
	onEvent func(event testEvent) Request
}

func newTestSubscriber(respond Request) *testSubscriber {
	return &testSubscriber{id: NextSubscriberID(), respond: respond}
}

func (s *testSubscriber) ID() SubscriberID {
	return s.id
}

func (s *testSubscriber) OnEvent(event testEvent) Request {
	s.handled.Add(1)
	if s.onEvent != nil {
		return s.onEvent(event)
	}
	return s.respond
}

func (s *testSubscriber) calls() int {
	return int(s.handled.Load())
}

func newRef(respond Request) (*Ref[testCategory, testEvent], *testSubscriber) {
	sub := newTestSubscriber(respond)
	return NewRef[testCategory, testEvent](sub), sub
}

func newSharedRef(respond Request) (*SharedRef[testCategory, testEvent], *testSubscriber) {
	sub := newTestSubscriber(respond)
	return NewSharedRef[testCategory, testEvent](sub), sub
}
