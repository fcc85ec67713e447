package metrics

import (
	"github.com/smazurov/obsnode/internal/events"
)

// Observe subscribes the metrics gauges to engine and session lifecycle
// events. Returns an unsubscribe function.
func Observe(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(func(events.EngineInitializedEvent) {
			SetEngineInitialized(true)
		}),
		bus.Subscribe(func(events.EngineShutdownEvent) {
			SetEngineInitialized(false)
		}),
		bus.Subscribe(func(e events.SessionStateChangedEvent) {
			SetSessionState(e.Current)
		}),
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
