package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	if err := os.WriteFile(path, []byte("size = \"640x360\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loader := func(p string) (string, error) {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}

	w := NewWatcher(path, loader, slog.Default(), WithDebounce[string](50*time.Millisecond))

	reloaded := make(chan string, 1)
	w.OnReload(func(cfg string) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("size = \"1280x720\"\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if !strings.Contains(cfg, "1280x720") {
			t.Errorf("handler got %q, want new contents", cfg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherUnsubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loader := func(p string) (string, error) { return "ok", nil }
	w := NewWatcher(path, loader, slog.Default(), WithDebounce[string](10*time.Millisecond))

	called := make(chan struct{}, 1)
	unsub := w.OnReload(func(string) {
		select {
		case called <- struct{}{}:
		default:
		}
	})
	unsub()

	// Deliver directly; the handler was removed so nothing should arrive.
	w.loadAndNotify()

	select {
	case <-called:
		t.Error("unsubscribed handler was called")
	case <-time.After(100 * time.Millisecond):
	}
}
