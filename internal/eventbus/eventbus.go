// Package eventbus is the pub/sub channel between a dialect parser and the
// plugin orchestrator (spec.md §4.G). Delivery is sequential: broadcast
// awaits each subscriber before invoking the next, and any subscriber
// failure halts the pipeline.
package eventbus

import "fmt"

// Event names the pipeline moments plugins may subscribe to.
type Event string

const (
	Before      Event = "before"
	After       Event = "after"
	Operation   Event = "operation"
	Parameter   Event = "parameter"
	RequestBody Event = "requestBody"
	Schema      Event = "schema"
	Server      Event = "server"
)

// Handler processes one broadcast payload. A non-nil error halts the
// pipeline.
type Handler func(payload any) error

// BroadcastError wraps a subscriber failure with enough context for the
// orchestrator to halt deterministically and for the external CLI to
// report it (spec.md §7).
type BroadcastError struct {
	EventName  Event
	PluginName string
	Payload    any
	Cause      error
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("broadcast %s -> plugin %q: %v", e.EventName, e.PluginName, e.Cause)
}

func (e *BroadcastError) Unwrap() error { return e.Cause }

type subscription struct {
	pluginName string
	handler    Handler
}

// Bus is an explicit mapping from event tag to an ordered sequence of
// subscriber records (spec.md §9 "prototype-shared event bus becomes an
// explicit mapping").
type Bus struct {
	subs map[Event][]subscription
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Event][]subscription)}
}

// Subscribe registers handler for event under pluginName. Subscribers of
// the same event fire in subscription order (spec.md §5), which the
// orchestrator arranges to equal pluginOrder by instantiating plugins in
// that order and letting each plugin subscribe during its own handler
// call.
func (b *Bus) Subscribe(event Event, pluginName string, handler Handler) {
	b.subs[event] = append(b.subs[event], subscription{pluginName: pluginName, handler: handler})
}

// Broadcast delivers payload to every subscriber of event in subscription
// order, awaiting each before invoking the next. The first subscriber
// error is wrapped as a *BroadcastError and returned immediately; no
// further subscribers of this or any later event run (spec.md §4.G, §8.8).
func (b *Bus) Broadcast(event Event, payload any) error {
	for _, s := range b.subs[event] {
		if err := s.handler(payload); err != nil {
			return &BroadcastError{EventName: event, PluginName: s.pluginName, Payload: payload, Cause: err}
		}
	}
	return nil
}
