package engine

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestContext() *Context {
	return NewContext(NewSim(), slog.Default())
}

func TestContextInitialize(t *testing.T) {
	ctx := newTestContext()

	version, err := ctx.Initialize(DefaultLocale)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !strings.HasPrefix(version, "v") {
		t.Errorf("version = %q, want prefix \"v\"", version)
	}
	if !ctx.IsInitialized() {
		t.Error("IsInitialized should be true after Initialize")
	}
	if ctx.VersionString() != version {
		t.Errorf("VersionString = %q, want %q", ctx.VersionString(), version)
	}
}

func TestContextInitializeTwiceIsCallerError(t *testing.T) {
	ctx := newTestContext()
	if _, err := ctx.Initialize(DefaultLocale); err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}

	_, err := ctx.Initialize(DefaultLocale)
	var engErr *Error
	if !errors.As(err, &engErr) || engErr.Code != ErrCodeAlreadyInitialized {
		t.Errorf("second Initialize error = %v, want code %s", err, ErrCodeAlreadyInitialized)
	}
}

func TestContextShutdown(t *testing.T) {
	ctx := newTestContext()
	if _, err := ctx.Initialize(DefaultLocale); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if err := ctx.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if ctx.IsInitialized() {
		t.Error("IsInitialized should be false after Shutdown")
	}
	if ctx.VersionString() != "" {
		t.Error("VersionString should be cleared after Shutdown")
	}
}

func TestContextShutdownWithoutInitialize(t *testing.T) {
	ctx := newTestContext()

	err := ctx.Shutdown()
	var engErr *Error
	if !errors.As(err, &engErr) || engErr.Code != ErrCodeNotInitialized {
		t.Errorf("Shutdown error = %v, want code %s", err, ErrCodeNotInitialized)
	}
}

func TestEnumQueriesReturnSentinelWhenDown(t *testing.T) {
	ctx := newTestContext()

	if got := ctx.EnumEncoders(); got != NotInitializedSentinel {
		t.Errorf("EnumEncoders = %q, want sentinel", got)
	}
	if got := ctx.EnumOutputs(); got != NotInitializedSentinel {
		t.Errorf("EnumOutputs = %q, want sentinel", got)
	}
}

func TestEnumQueriesEmptyAfterInitialize(t *testing.T) {
	ctx := newTestContext()
	if _, err := ctx.Initialize(DefaultLocale); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// No session yet, so no live encoder or output handles.
	if got := ctx.EnumEncoders(); got != "" {
		t.Errorf("EnumEncoders = %q, want empty", got)
	}
	if got := ctx.EnumOutputs(); got != "" {
		t.Errorf("EnumOutputs = %q, want empty", got)
	}
}

// failingStartup reports not-initialized even after a successful startup
// call, which must surface as STARTUP_FAILED.
type failingStartup struct {
	*Sim
}

func (f *failingStartup) Startup(string) error { return nil }
func (f *failingStartup) Initialized() bool    { return false }

func TestContextStartupFailed(t *testing.T) {
	ctx := NewContext(&failingStartup{NewSim()}, slog.Default())

	_, err := ctx.Initialize(DefaultLocale)
	var engErr *Error
	if !errors.As(err, &engErr) || engErr.Code != ErrCodeStartupFailed {
		t.Errorf("Initialize error = %v, want code %s", err, ErrCodeStartupFailed)
	}
	if ctx.IsInitialized() {
		t.Error("context must not report initialized after failed startup")
	}
}
