package pubsub

// Dispatcher is the dispatch surface shared by every bus in this package.
type Dispatcher[T comparable, E Event[T]] interface {
	Dispatch(event E) Result
}

// BlockingDispatcher is the blocking dispatch surface of the shared-owner buses.
type BlockingDispatcher[T comparable, E Event[T]] interface {
	DispatchBlocking(event E) Result
}

// Publisher forwards published events into a bus. It carries no state beyond
// the bus it targets; it exists so publishing code can depend on a publisher
// value without knowing which registry backs it.
type Publisher[T comparable, E Event[T]] struct {
	bus Dispatcher[T, E]
}

func NewPublisher[T comparable, E Event[T]](bus Dispatcher[T, E]) Publisher[T, E] {
	return Publisher[T, E]{bus: bus}
}

func (p Publisher[T, E]) Publish(event E) Result {
	return p.bus.Dispatch(event)
}

// BlockingPublisher forwards published events into a shared-owner bus using
// blocking dispatch, the default for publishing under that discipline since it
// maximizes delivery.
type BlockingPublisher[T comparable, E Event[T]] struct {
	bus BlockingDispatcher[T, E]
}

func NewBlockingPublisher[T comparable, E Event[T]](bus BlockingDispatcher[T, E]) BlockingPublisher[T, E] {
	return BlockingPublisher[T, E]{bus: bus}
}

func (p BlockingPublisher[T, E]) Publish(event E) Result {
	return p.bus.DispatchBlocking(event)
}
