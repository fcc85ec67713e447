package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/obsnode/internal/events"
)

// registerEventRoutes registers the engine event SSE endpoint
func (s *Server) registerEventRoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Event Stream",
		Description: "Real-time engine and session lifecycle events via Server-Sent Events",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"engine_initialized":    events.EngineInitializedEvent{},
		"engine_shutdown":       events.EngineShutdownEvent{},
		"video_reset":           events.VideoResetEvent{},
		"audio_reset":           events.AudioResetEvent{},
		"session_state_changed": events.SessionStateChangedEvent{},
	}, func(ctx context.Context, input *struct{}, send sse.Sender) {
		eventCh := make(chan any, 10)

		// Subscribe to every lifecycle event type; the bus dispatches on the
		// concrete type, so each needs its own subscription.
		unsubs := []func(){
			events.SubscribeToChannel[events.EngineInitializedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.EngineShutdownEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.VideoResetEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.AudioResetEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.SessionStateChangedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubs {
				unsub()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}
