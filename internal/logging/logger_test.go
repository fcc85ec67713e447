package logging

import (
	"context"
	"log/slog"
	"testing"
)

func resetState() {
	mutex.Lock()
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	isInitialized = false
	logBuffer = nil
	mutex.Unlock()
}

func TestModuleLevelOverride(t *testing.T) {
	resetState()

	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"session": "debug",
			"api":     "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"session", true, true, true},
		{"api", false, false, true},
		{"other", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			handler := GetLogger(tt.module).Handler()

			gotDebug := handler.Enabled(context.Background(), slog.LevelDebug)
			gotInfo := handler.Enabled(context.Background(), slog.LevelInfo)
			gotWarn := handler.Enabled(context.Background(), slog.LevelWarn)

			if gotDebug != tt.wantDebug {
				t.Errorf("module %q: Debug enabled = %v, want %v", tt.module, gotDebug, tt.wantDebug)
			}
			if gotInfo != tt.wantInfo {
				t.Errorf("module %q: Info enabled = %v, want %v", tt.module, gotInfo, tt.wantInfo)
			}
			if gotWarn != tt.wantWarn {
				t.Errorf("module %q: Warn enabled = %v, want %v", tt.module, gotWarn, tt.wantWarn)
			}
		})
	}
}

func TestSetModuleLevel(t *testing.T) {
	resetState()
	Initialize(Config{Level: "info", Format: "text"})

	logger := GetLogger("engine")
	if logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("engine logger should start at info level")
	}

	if !SetModuleLevel("engine", "debug") {
		t.Fatal("SetModuleLevel failed for existing module")
	}
	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("engine logger should log debug after SetModuleLevel")
	}

	if SetModuleLevel("engine", "bogus") {
		t.Error("SetModuleLevel should reject unknown level names")
	}
	if SetModuleLevel("missing", "debug") {
		t.Error("SetModuleLevel should fail for unknown module")
	}
}

func TestRingBufferCapturesEntries(t *testing.T) {
	resetState()
	Initialize(Config{Level: "info", Format: "text"})

	GetLogger("session").Info("session started", "state", "idle")

	entries := GetBuffer().ReadAll()
	if len(entries) == 0 {
		t.Fatal("expected at least one entry in the ring buffer")
	}
	last := entries[len(entries)-1]
	if last.Module != "session" {
		t.Errorf("entry module = %q, want %q", last.Module, "session")
	}
	if last.Message != "session started" {
		t.Errorf("entry message = %q, want %q", last.Message, "session started")
	}
}

func TestRingBufferWraps(t *testing.T) {
	rb := NewRingBuffer(3)
	for i := 0; i < 5; i++ {
		rb.Write(Entry{Message: string(rune('a' + i))})
	}

	entries := rb.ReadAll()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"c", "d", "e"}
	for i, entry := range entries {
		if entry.Message != want[i] {
			t.Errorf("entry[%d] = %q, want %q", i, entry.Message, want[i])
		}
	}
}
