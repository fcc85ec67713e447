// Package events provides an in-process event bus for engine and session
// lifecycle notifications.
package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(SessionStateChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	// kelindar/event dispatches on the concrete type, so unwrap here.
	switch e := ev.(type) {
	case EngineInitializedEvent:
		event.Publish(b.dispatcher, e)
	case EngineShutdownEvent:
		event.Publish(b.dispatcher, e)
	case VideoResetEvent:
		event.Publish(b.dispatcher, e)
	case AudioResetEvent:
		event.Publish(b.dispatcher, e)
	case SessionStateChangedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes a handler function; its parameter type selects which
// events it receives. Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e SessionStateChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(EngineInitializedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(EngineShutdownEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(VideoResetEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(AudioResetEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SessionStateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
