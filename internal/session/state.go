package session

// State represents the current state of the streaming session.
type State string

// Session states.
const (
	StateIdle     State = "idle"     // No session, engine reconfiguration allowed
	StateStarting State = "starting" // Resources being acquired and output starting
	StateRunning  State = "running"  // Output active
	StateStopping State = "stopping" // Output being stopped and resources released
)
