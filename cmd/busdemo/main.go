// Command busdemo runs a small telemetry simulation over the pubsub engine to
// show priority ordering, propagation stops, and the two concurrency
// disciplines. It has no bearing on the library's API surface.
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/saylorsolutions/pubsub"
)

type category int

const (
	catTelemetry category = iota
	catAlert
)

func (c category) String() string {
	switch c {
	case catTelemetry:
		return "telemetry"
	case catAlert:
		return "alert"
	default:
		return "unknown"
	}
}

type reading struct {
	cat   category
	value int
}

func (r reading) Category() category {
	return r.cat
}

// watcher prints readings and suppresses further propagation once a value
// crosses its threshold, the way an alerting handler would claim an event.
type watcher struct {
	id        pubsub.SubscriberID
	name      string
	threshold int
	colored   bool
	seen      int
}

func (w *watcher) ID() pubsub.SubscriberID {
	return w.id
}

func (w *watcher) OnEvent(event reading) pubsub.Request {
	w.seen++
	if event.value >= w.threshold {
		fmt.Println(w.paint(fmt.Sprintf("%8s | %s: value %d is at or over %d, claiming event", event.cat, w.name, event.value, w.threshold)))
		return pubsub.DoNotPropagate
	}
	fmt.Printf("%8s | %s: value %d\n", event.cat, w.name, event.value)
	return pubsub.NoActionNeeded
}

func (w *watcher) paint(msg string) string {
	if !w.colored {
		return msg
	}
	return "\x1b[33m" + msg + "\x1b[0m"
}

func newWatcher(name string, threshold int, colored bool) *watcher {
	return &watcher{
		id:        pubsub.NextSubscriberID(),
		name:      name,
		threshold: threshold,
		colored:   colored,
	}
}

type publisher interface {
	Publish(event reading) pubsub.Result
}

func main() {
	var (
		events    = flag.Int("events", 10, "number of readings to publish")
		threshold = flag.Int("threshold", 90, "value at which the triage watcher claims an event")
		shared    = flag.Bool("shared", false, "use the shared-owner discipline with blocking publishes")
		seed      = flag.Int64("seed", 1, "seed for generated readings")
		noColor   = flag.Bool("no-color", false, "disable colored output even on a terminal")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	colored := !*noColor && term.IsTerminal(int(os.Stdout.Fd()))

	// Triage runs first, then the plain logger, then the archiver. An event
	// claimed by triage never reaches the other two.
	names := []struct {
		name     string
		priority int
	}{
		{"triage", 1},
		{"logger", 2},
		{"archiver", 3},
	}

	var (
		pub      publisher
		watchers []*watcher
	)
	if *shared {
		bus := pubsub.NewSharedPriority[category, reading, int]()
		for _, n := range names {
			w := newWatcher(n.name, *threshold, colored)
			watchers = append(watchers, w)
			bus.Subscribe(pubsub.NewSharedRef[category, reading](w), catAlert, n.priority)
			bus.Subscribe(pubsub.NewSharedRef[category, reading](w), catTelemetry, n.priority)
		}
		pub = pubsub.NewBlockingPublisher[category, reading](bus)
	} else {
		bus := pubsub.NewPriority[category, reading, int]()
		for _, n := range names {
			w := newWatcher(n.name, *threshold, colored)
			watchers = append(watchers, w)
			bus.Subscribe(pubsub.NewRef[category, reading](w), catAlert, n.priority)
			bus.Subscribe(pubsub.NewRef[category, reading](w), catTelemetry, n.priority)
		}
		pub = pubsub.NewPublisher[category, reading](bus)
	}

	rng := rand.New(rand.NewSource(*seed))
	var stopped int
	for i := 0; i < *events; i++ {
		event := reading{cat: catTelemetry, value: rng.Intn(100)}
		if event.value >= *threshold {
			event.cat = catAlert
		}
		if res := pub.Publish(event); res.Status == pubsub.Stopped {
			stopped++
		}
	}

	for _, w := range watchers {
		logger.Info("watcher summary", "name", w.name, "deliveries", w.seen)
	}
	logger.Info("run complete", "events", *events, "claimed", stopped, "shared", *shared)
}
