// Package session sequences the streaming session lifecycle over the engine:
// Idle -> Starting -> Running -> Stopping -> Idle. One control goroutine owns
// all state; blocking engine work runs on per-command worker goroutines whose
// completions are applied back on the control goroutine, so no two state
// transitions ever race.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/smazurov/obsnode/internal/engine"
	"github.com/smazurov/obsnode/internal/events"
	"github.com/smazurov/obsnode/internal/metrics"
)

// Fixed result payloads of the control surface.
const (
	StartSuccessToken      = "ok"
	StopSuccessMessage     = "stopped"
	ShutdownSuccessMessage = "Success shutting down OBS"
)

// Config configures the session manager.
type Config struct {
	// Locale handed to the engine at startup.
	Locale string
	// OneShot restores the legacy bounded-attempt behavior: the output is
	// released right after the native start call returns and the session
	// goes straight back to idle. Default is to stay running until an
	// explicit stop.
	OneShot bool
	// Resources selects the handle types used per session.
	Resources ResourceConfig
}

// Status is a snapshot of the engine and session state.
type Status struct {
	Initialized  bool
	Version      string
	SessionState State
}

// Manager drives the engine lifecycle and the single streaming session. All
// commands return a Future that settles once the command's background task
// completes; the two enumeration queries and Status are synchronous reads.
type Manager struct {
	engine *engine.Context
	cfg    Config
	bus    *events.Bus
	logger *slog.Logger

	cmds chan func()
	quit chan struct{}
	once sync.Once

	// state and resources are mutated only on the control goroutine.
	mu        sync.RWMutex
	state     State
	resources *Resources
}

// NewManager creates a session manager and starts its control goroutine.
func NewManager(engineCtx *engine.Context, cfg Config, bus *events.Bus, logger *slog.Logger) *Manager {
	if cfg.Resources == (ResourceConfig{}) {
		cfg.Resources = DefaultResourceConfig()
	}
	m := &Manager{
		engine: engineCtx,
		cfg:    cfg,
		bus:    bus,
		logger: logger,
		cmds:   make(chan func(), 16),
		quit:   make(chan struct{}),
		state:  StateIdle,
	}
	go m.run()
	return m
}

// Close stops the control goroutine. Pending futures settle with an error.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.quit) })
}

func (m *Manager) run() {
	for {
		select {
		case fn := <-m.cmds:
			fn()
		case <-m.quit:
			return
		}
	}
}

// submit runs fn on the control goroutine. Returns false when the manager is
// closed.
func (m *Manager) submit(fn func()) bool {
	select {
	case <-m.quit:
		return false
	default:
	}
	select {
	case m.cmds <- fn:
		return true
	case <-m.quit:
		return false
	}
}

// dispatch queues a control thunk for one command and returns its future.
func (m *Manager) dispatch(command string, fn func(f *Future)) *Future {
	f := newFuture()
	if !m.submit(func() { fn(f) }) {
		return settledFuture("", engine.NewError(engine.ErrCodeNativeCallFailed, "session manager is closed", nil))
	}
	return f
}

// runTask executes body on a worker goroutine and applies its completion on
// the control goroutine: the continuation runs first, then the future
// settles. The task body must only perform engine and registry work, never
// state mutation.
func (m *Manager) runTask(f *Future, command string, body func() (string, error), after func(value string, err error)) {
	start := time.Now()
	go func() {
		value, err := body()
		delivered := m.submit(func() {
			if after != nil {
				after(value, err)
			}
			metrics.ObserveCommand(command, err, time.Since(start))
			f.settle(value, err)
		})
		if !delivered {
			f.settle("", engine.NewError(engine.ErrCodeNativeCallFailed, "session manager closed mid-command", err))
		}
	}()
}

// reject settles a future at dispatch time, before any task is queued.
func (m *Manager) reject(f *Future, command string, err error) {
	metrics.ObserveCommand(command, err, 0)
	m.logger.Warn("Command rejected", "command", command, "error", err)
	f.settle("", err)
}

// Initialize starts the engine core, loads modules and resolves the engine
// version string.
func (m *Manager) Initialize() *Future {
	return m.dispatch("initialize", func(f *Future) {
		m.runTask(f, "initialize", func() (string, error) {
			return m.engine.Initialize(m.cfg.Locale)
		}, func(version string, err error) {
			if err != nil {
				return
			}
			m.bus.Publish(events.EngineInitializedEvent{
				Version:   version,
				Timestamp: timestamp(),
			})
		})
	})
}

// Shutdown tears the engine down. Rejected with SESSION_ACTIVE while a
// session is live; the caller must stop the output first.
func (m *Manager) Shutdown() *Future {
	return m.dispatch("shutdown", func(f *Future) {
		if m.currentState() != StateIdle {
			m.reject(f, "shutdown", engine.NewError(engine.ErrCodeSessionActive, "stop the active session before shutdown", nil))
			return
		}
		m.runTask(f, "shutdown", func() (string, error) {
			if err := m.engine.Shutdown(); err != nil {
				return "", err
			}
			return ShutdownSuccessMessage, nil
		}, func(_ string, err error) {
			if err != nil {
				return
			}
			m.bus.Publish(events.EngineShutdownEvent{Timestamp: timestamp()})
		})
	})
}

// ResetVideo replaces the base video configuration from a "WxH" size hint
// and resolves the size actually applied. Valid only while idle.
func (m *Manager) ResetVideo(sizeHint string) *Future {
	return m.dispatch("resetVideo", func(f *Future) {
		if err := m.requireIdle("resetVideo"); err != nil {
			m.reject(f, "resetVideo", err)
			return
		}
		m.runTask(f, "resetVideo", func() (string, error) {
			width, height := engine.ParseSizeHint(sizeHint)
			info := engine.BuildVideoInfo(engine.VideoOverrides{BaseWidth: width, BaseHeight: height})
			if err := m.engine.Native().ResetVideo(info); err != nil {
				return "", engine.NewError(engine.ErrCodeNativeCallFailed, "video reset rejected by engine", err)
			}
			return info.Size(), nil
		}, func(size string, err error) {
			if err != nil {
				return
			}
			m.logger.Info("Video pipeline reset", "size", size)
			m.bus.Publish(events.VideoResetEvent{Size: size, Timestamp: timestamp()})
		})
	})
}

// ResetAudio replaces the base audio configuration from a channel hint and
// resolves the applied speaker layout. Valid only while idle.
func (m *Manager) ResetAudio(channelHint string) *Future {
	return m.dispatch("resetAudio", func(f *Future) {
		if err := m.requireIdle("resetAudio"); err != nil {
			m.reject(f, "resetAudio", err)
			return
		}
		m.runTask(f, "resetAudio", func() (string, error) {
			speakers := engine.ParseChannelHint(channelHint)
			info := engine.BuildAudioInfo(engine.AudioOverrides{Speakers: speakers})
			if err := m.engine.Native().ResetAudio(info); err != nil {
				return "", engine.NewError(engine.ErrCodeNativeCallFailed, "audio reset rejected by engine", err)
			}
			return string(info.Speakers), nil
		}, func(speakers string, err error) {
			if err != nil {
				return
			}
			m.logger.Info("Audio pipeline reset", "speakers", speakers)
			m.bus.Publish(events.AudioResetEvent{Speakers: speakers, Timestamp: timestamp()})
		})
	})
}

// StartOutput acquires the session resources and starts the output towards
// the given target URL. In the default mode the session stays running until
// StopOutput; in one-shot mode the attempt tears itself down right after the
// native start call.
func (m *Manager) StartOutput(target string) *Future {
	return m.dispatch("startOutput", func(f *Future) {
		if !m.engine.IsInitialized() {
			m.reject(f, "startOutput", engine.NewError(engine.ErrCodeNotInitialized, "engine is not initialized", nil))
			return
		}
		if target == "" {
			m.reject(f, "startOutput", engine.NewError(engine.ErrCodeInvalidParams, "expected a non-empty stream target", nil))
			return
		}
		if m.currentState() != StateIdle {
			m.reject(f, "startOutput", engine.NewError(engine.ErrCodeSessionActive, "a session is already active", nil))
			return
		}

		m.setState(StateStarting, nil)
		resCfg := m.cfg.Resources
		m.runTask(f, "startOutput", func() (string, error) {
			res, err := acquireResources(m.engine.Native(), resCfg, target, m.logger)
			if err != nil {
				return "", err
			}
			if err := res.Start(); err != nil {
				res.Release()
				return "", engine.NewError(engine.ErrCodeNativeCallFailed, "output start rejected", err)
			}
			if m.cfg.OneShot {
				// Legacy bounded attempt: fire the output and tear
				// it straight down.
				res.Release()
				return StartSuccessToken, nil
			}
			m.adopt(res)
			return StartSuccessToken, nil
		}, func(_ string, err error) {
			switch {
			case err != nil:
				m.setState(StateIdle, err)
			case m.cfg.OneShot:
				m.setState(StateIdle, nil)
			default:
				m.setState(StateRunning, nil)
			}
		})
	})
}

// StopOutput stops the running output and releases the session resources.
func (m *Manager) StopOutput() *Future {
	return m.dispatch("stopOutput", func(f *Future) {
		if !m.engine.IsInitialized() {
			m.reject(f, "stopOutput", engine.NewError(engine.ErrCodeNotInitialized, "engine is not initialized", nil))
			return
		}
		if m.currentState() != StateRunning {
			m.reject(f, "stopOutput", engine.NewError(engine.ErrCodeSessionNotActive, "no session is running", nil))
			return
		}

		res := m.takeResources()
		m.setState(StateStopping, nil)
		m.runTask(f, "stopOutput", func() (string, error) {
			if res != nil {
				res.Release()
			}
			return StopSuccessMessage, nil
		}, func(_ string, err error) {
			m.setState(StateIdle, err)
		})
	})
}

// SetResourceConfig replaces the handle types used for future sessions.
// Valid only while idle; the active session keeps the types it was started
// with.
func (m *Manager) SetResourceConfig(cfg ResourceConfig) *Future {
	return m.dispatch("setResourceConfig", func(f *Future) {
		if m.currentState() != StateIdle {
			m.reject(f, "setResourceConfig", engine.NewError(engine.ErrCodeSessionActive, "resource types cannot change while a session is active", nil))
			return
		}
		if cfg == (ResourceConfig{}) {
			cfg = DefaultResourceConfig()
		}
		m.cfg.Resources = cfg
		m.logger.Info("Session resource types updated",
			"video_encoder", cfg.VideoEncoderType,
			"audio_encoder", cfg.AudioEncoderType,
			"output", cfg.OutputType,
			"service", cfg.ServiceType)
		f.settle("updated", nil)
	})
}

// State returns the current session state.
func (m *Manager) State() State {
	return m.currentState()
}

// Status returns a snapshot of engine and session state.
func (m *Manager) Status() Status {
	return Status{
		Initialized:  m.engine.IsInitialized(),
		Version:      m.engine.VersionString(),
		SessionState: m.currentState(),
	}
}

// Codecs lists the engine's live encoder handles. Synchronous metadata read;
// returns the not-initialized sentinel instead of failing.
func (m *Manager) Codecs() string {
	return m.engine.EnumEncoders()
}

// Outputs lists the engine's live output handles.
func (m *Manager) Outputs() string {
	return m.engine.EnumOutputs()
}

func (m *Manager) currentState() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// setState applies a state transition. Runs on the control goroutine only.
func (m *Manager) setState(next State, cause error) {
	m.mu.Lock()
	prev := m.state
	m.state = next
	m.mu.Unlock()

	if prev == next {
		return
	}

	if cause != nil {
		m.logger.Warn("Session state changed", "from", prev, "to", next, "error", cause)
	} else {
		m.logger.Info("Session state changed", "from", prev, "to", next)
	}

	ev := events.SessionStateChangedEvent{
		Previous:  string(prev),
		Current:   string(next),
		Timestamp: timestamp(),
	}
	if cause != nil {
		ev.Error = cause.Error()
	}
	m.bus.Publish(ev)
}

// adopt hands ownership of freshly acquired resources to the registry. The
// start task calls this right before its continuation transitions to
// Running; state stays Starting until then, so the handoff cannot interleave
// with another attempt.
func (m *Manager) adopt(res *Resources) {
	m.mu.Lock()
	m.resources = res
	m.mu.Unlock()
}

func (m *Manager) takeResources() *Resources {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := m.resources
	m.resources = nil
	return res
}

func (m *Manager) requireIdle(command string) error {
	if !m.engine.IsInitialized() {
		return engine.NewError(engine.ErrCodeNotInitialized, "engine is not initialized", nil)
	}
	if m.currentState() != StateIdle {
		return engine.NewError(engine.ErrCodeSessionActive, command+" is not allowed while a session is active", nil)
	}
	return nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
