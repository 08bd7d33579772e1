package pubsub

import "fmt"

// Request is returned by a subscriber's OnEvent method, and doubles as the
// subscriber's instruction to the bus for how delivery should continue.
type Request int

const (
	// NoActionNeeded means the event was handled and delivery should continue normally.
	NoActionNeeded Request = iota
	// Unsubscribe removes the responding subscriber from the channel being dispatched.
	Unsubscribe
	// DoNotPropagate stops delivery of the current event to any subscriber not yet visited.
	DoNotPropagate
	// UnsubscribeAndDoNotPropagate combines Unsubscribe and DoNotPropagate.
	UnsubscribeAndDoNotPropagate
	// DispatchFailed reports that this delivery attempt failed.
	// The subscriber stays registered; the failure is counted in the dispatch Result.
	DispatchFailed
)

func (r Request) String() string {
	switch r {
	case NoActionNeeded:
		return "no action needed"
	case Unsubscribe:
		return "unsubscribe"
	case DoNotPropagate:
		return "do not propagate"
	case UnsubscribeAndDoNotPropagate:
		return "unsubscribe and do not propagate"
	case DispatchFailed:
		return "dispatch failed"
	default:
		return fmt.Sprintf("unknown request (%d)", int(r))
	}
}

// Status classifies how a dispatch call ended.
type Status int

const (
	// NotNeeded means no channel was registered for the event's category. Nobody was listening.
	NotNeeded Status = iota
	// Stopped means a subscriber halted propagation before the end of the channel.
	Stopped
	// Finished means every subscriber in the channel was offered the event.
	Finished
	// FinishedWithFailures is Finished with one or more failed delivery attempts.
	FinishedWithFailures
)

func (s Status) String() string {
	switch s {
	case NotNeeded:
		return "not needed"
	case Stopped:
		return "stopped"
	case Finished:
		return "finished"
	case FinishedWithFailures:
		return "finished with failures"
	default:
		return fmt.Sprintf("unknown status (%d)", int(s))
	}
}

// Result is the aggregate outcome of a single dispatch call.
// Failures is nonzero only when Status is [FinishedWithFailures].
type Result struct {
	Status   Status
	Failures int
}

func (r Result) String() string {
	if r.Status == FinishedWithFailures {
		return fmt.Sprintf("%s (%d)", r.Status, r.Failures)
	}
	return r.Status.String()
}
