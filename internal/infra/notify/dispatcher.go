// Package notify implements the change-notification dispatcher and its
// delivery sinks. The dispatcher is explicitly constructed and passed by
// reference to whatever composes the service layer; there is no process-wide
// hub. Delivery failures are logged and swallowed: a failed sink never rolls
// back the mutation that triggered the notification.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Notification is one delivered event.
type Notification struct {
	Timestamp time.Time
	Event     string
	Message   string
	Data      map[string]any
}

// Sink receives notifications. Deliver may fail; the dispatcher absorbs the
// failure.
type Sink interface {
	Deliver(n Notification) error
}

// Dispatcher fans notifications out to subscribed sinks. Sinks subscribe to
// a single event type or to all events. Safe for concurrent use.
type Dispatcher struct {
	mu     sync.RWMutex
	sinks  map[string][]Sink
	all    []Sink
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher. The logger may be nil.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{sinks: make(map[string][]Sink), logger: logger}
}

// Subscribe registers a sink for one event type.
func (d *Dispatcher) Subscribe(event string, s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.sinks[event] {
		if existing == s {
			return
		}
	}
	d.sinks[event] = append(d.sinks[event], s)
}

// SubscribeAll registers a sink for every event type.
func (d *Dispatcher) SubscribeAll(s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.all {
		if existing == s {
			return
		}
	}
	d.all = append(d.all, s)
}

// Unsubscribe removes a sink from one event type.
func (d *Dispatcher) Unsubscribe(event string, s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sinks := d.sinks[event]
	for i, existing := range sinks {
		if existing == s {
			d.sinks[event] = append(sinks[:i], sinks[i+1:]...)
			return
		}
	}
}

// Notify delivers an event to the sinks subscribed to it and to the
// subscribe-all sinks. Implements domain.Notifier.
func (d *Dispatcher) Notify(event, message string, data map[string]any) {
	d.mu.RLock()
	targets := make([]Sink, 0, len(d.sinks[event])+len(d.all))
	targets = append(targets, d.sinks[event]...)
	targets = append(targets, d.all...)
	d.mu.RUnlock()

	n := Notification{
		Timestamp: time.Now(),
		Event:     event,
		Message:   message,
		Data:      data,
	}
	for _, s := range targets {
		if err := s.Deliver(n); err != nil && d.logger != nil {
			d.logger.Warn("notification delivery failed", "event", event, "error", err)
		}
	}
}
