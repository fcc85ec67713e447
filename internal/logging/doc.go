// Package logging provides structured logging with per-module log level
// configuration.
//
// The package builds on log/slog. Each subsystem asks for its own logger via
// GetLogger("engine"), GetLogger("session"), etc. and gets a handler chain
// that writes to stdout (text or json), to the systemd journal when one is
// listening, and to an in-memory ring buffer that the HTTP API serves for
// quick diagnostics.
//
// Initialize the system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"session": "debug",
//			"api":     "warn",
//		},
//	})
//
// Module-specific levels override the global level for that module only and
// can be changed at runtime through the level vars.
//
// When running under systemd:
//
//	journalctl -t obsnode -f
//	journalctl -t obsnode MODULE=session
package logging
