package engine

import (
	"log/slog"
	"strings"
	"sync"
)

// DefaultLocale is the locale handed to the engine for module loading.
const DefaultLocale = "en-US"

// Context owns the process-wide engine lifecycle: whether the engine core is
// initialized and the version string read back at startup. All other engine
// operations require an initialized context and fail fast otherwise, without
// touching the native layer.
type Context struct {
	native Native
	logger *slog.Logger

	mu          sync.RWMutex
	initialized bool
	version     string
}

// NewContext creates an engine context over the given native binding.
func NewContext(native Native, logger *slog.Logger) *Context {
	return &Context{
		native: native,
		logger: logger,
	}
}

// Initialize performs native startup, loads all modules and reads back the
// engine version. Calling it on an initialized context is a caller error,
// not a no-op.
func (c *Context) Initialize(locale string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return "", NewError(ErrCodeAlreadyInitialized, "engine is already initialized", nil)
	}
	if locale == "" {
		locale = DefaultLocale
	}

	if err := c.native.Startup(locale); err != nil {
		return "", NewError(ErrCodeStartupFailed, "engine startup failed", err)
	}
	if !c.native.Initialized() {
		// The startup call returned but the engine does not report
		// initialized; treat as a failed startup rather than limping on.
		return "", NewError(ErrCodeStartupFailed, "engine did not reach initialized state", nil)
	}

	if err := c.native.LoadAllModules(); err != nil {
		c.native.Shutdown()
		return "", NewError(ErrCodeStartupFailed, "module load failed", err)
	}

	c.version = "v" + c.native.Version()
	c.initialized = true
	c.logger.Info("Engine initialized", "version", c.version, "locale", locale)
	return c.version, nil
}

// Shutdown releases all engine-held resources. The caller must guarantee no
// session resources are live.
func (c *Context) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return NewError(ErrCodeNotInitialized, "engine is not initialized", nil)
	}

	c.native.Shutdown()
	c.initialized = false
	c.version = ""
	c.logger.Info("Engine shut down")
	return nil
}

// IsInitialized reports whether the engine is up. Always safe to call.
func (c *Context) IsInitialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// VersionString returns the version read at initialization, e.g. "v31.0.2".
// Empty when uninitialized.
func (c *Context) VersionString() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Native exposes the underlying engine binding for session resource work.
func (c *Context) Native() Native {
	return c.native
}

// EnumEncoders concatenates the names of the engine's live encoder handles.
// Returns the not-initialized sentinel instead of failing when the engine is
// down.
func (c *Context) EnumEncoders() string {
	if !c.IsInitialized() {
		return NotInitializedSentinel
	}
	return strings.Join(c.native.EnumEncoders(), "")
}

// EnumOutputs concatenates the names of the engine's live output handles.
func (c *Context) EnumOutputs() string {
	if !c.IsInitialized() {
		return NotInitializedSentinel
	}
	return strings.Join(c.native.EnumOutputs(), "")
}
