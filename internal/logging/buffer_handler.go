package logging

import (
	"context"
	"log/slog"
	"sync"
)

var (
	sinkMu    sync.RWMutex
	entrySink func(Entry)
)

// SetEntrySink installs a callback invoked for every buffered entry. Used to
// forward log lines onto the event bus for live streaming.
func SetEntrySink(fn func(Entry)) {
	sinkMu.Lock()
	entrySink = fn
	sinkMu.Unlock()
}

// BufferHandler is a slog.Handler that records entries into the package's
// ring buffer. The buffer is looked up at write time so handlers created
// before Initialize still participate once the buffer exists.
type BufferHandler struct {
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewBufferHandler creates a handler that writes to the shared ring buffer.
func NewBufferHandler(level slog.Leveler) *BufferHandler {
	return &BufferHandler{level: level}
}

// Enabled implements slog.Handler.
func (h *BufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *BufferHandler) Handle(_ context.Context, r slog.Record) error {
	buffer := GetBuffer()
	if buffer == nil {
		return nil
	}

	entry := Entry{
		Timestamp:  r.Time,
		Level:      r.Level.String(),
		Module:     "app",
		Attributes: make(map[string]any),
		Message:    r.Message,
	}

	collect := func(attr slog.Attr) {
		if attr.Equal(slog.Attr{}) {
			return
		}
		key := attr.Key
		if len(h.groups) > 0 {
			key = joinGroups(h.groups, key)
		}
		if key == "module" {
			entry.Module = attr.Value.String()
			return
		}
		entry.Attributes[key] = attr.Value.Any()
	}

	for _, attr := range h.attrs {
		collect(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		collect(attr)
		return true
	})

	if len(entry.Attributes) == 0 {
		entry.Attributes = nil
	}
	buffer.Write(entry)

	sinkMu.RLock()
	sink := entrySink
	sinkMu.RUnlock()
	if sink != nil {
		sink(entry)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *BufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &BufferHandler{level: h.level, attrs: merged, groups: h.groups}
}

// WithGroup implements slog.Handler.
func (h *BufferHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &BufferHandler{level: h.level, attrs: h.attrs, groups: groups}
}

func joinGroups(groups []string, key string) string {
	out := ""
	for _, g := range groups {
		out += g + "."
	}
	return out + key
}
