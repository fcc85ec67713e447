package events

// Event type constants for kelindar/event.
const (
	TypeEngineInitialized uint32 = iota + 1
	TypeEngineShutdown
	TypeVideoReset
	TypeAudioReset
	TypeSessionStateChanged
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// EngineInitializedEvent is published after the engine completes startup.
type EngineInitializedEvent struct {
	Version   string `json:"version" example:"v31.0.2" doc:"Engine version string"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for EngineInitializedEvent.
func (e EngineInitializedEvent) Type() uint32 { return TypeEngineInitialized }

// EngineShutdownEvent is published after the engine is torn down.
type EngineShutdownEvent struct {
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for EngineShutdownEvent.
func (e EngineShutdownEvent) Type() uint32 { return TypeEngineShutdown }

// VideoResetEvent is published when the base video configuration is replaced.
type VideoResetEvent struct {
	Size      string `json:"size" example:"1280x720" doc:"Applied base canvas size"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for VideoResetEvent.
func (e VideoResetEvent) Type() uint32 { return TypeVideoReset }

// AudioResetEvent is published when the base audio configuration is replaced.
type AudioResetEvent struct {
	Speakers  string `json:"speakers" example:"stereo" doc:"Applied speaker layout"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for AudioResetEvent.
func (e AudioResetEvent) Type() uint32 { return TypeAudioReset }

// SessionStateChangedEvent is published on every streaming session state
// transition.
type SessionStateChangedEvent struct {
	Previous  string `json:"previous" example:"idle" doc:"Previous session state"`
	Current   string `json:"current" example:"running" doc:"Current session state"`
	Error     string `json:"error,omitempty" doc:"Failure detail when the transition was caused by an error"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SessionStateChangedEvent.
func (e SessionStateChangedEvent) Type() uint32 { return TypeSessionStateChanged }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-27T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"api" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
