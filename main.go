package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/pelletier/go-toml/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smazurov/obsnode/cmd"
	"github.com/smazurov/obsnode/internal/api"
	"github.com/smazurov/obsnode/internal/config"
	"github.com/smazurov/obsnode/internal/engine"
	"github.com/smazurov/obsnode/internal/events"
	"github.com/smazurov/obsnode/internal/logging"
	"github.com/smazurov/obsnode/internal/metrics"
	"github.com/smazurov/obsnode/internal/session"
	"github.com/smazurov/obsnode/internal/updater"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Engine settings
	EngineLocale string `help:"Engine locale" default:"en-US" toml:"engine.locale" env:"ENGINE_LOCALE"`

	// Session settings
	SessionOneShot      bool   `help:"Release the session right after the start call succeeds" default:"false" toml:"session.one_shot" env:"SESSION_ONE_SHOT"`
	SessionVideoEncoder string `help:"Video encoder type id" default:"" toml:"session.video_encoder" env:"SESSION_VIDEO_ENCODER"`
	SessionAudioEncoder string `help:"Audio encoder type id" default:"" toml:"session.audio_encoder" env:"SESSION_AUDIO_ENCODER"`
	SessionOutput       string `help:"Output type id" default:"" toml:"session.output" env:"SESSION_OUTPUT"`
	SessionService      string `help:"Service type id" default:"" toml:"session.service" env:"SESSION_SERVICE"`
	SessionServiceKey   string `help:"Stream key for the service" default:"" toml:"session.service_key" env:"SESSION_SERVICE_KEY"`

	// Update settings
	UpdateEnabled    bool   `help:"Enable the self-update service" default:"true" toml:"update.enabled" env:"UPDATE_ENABLED"`
	UpdateRepository string `help:"GitHub repository slug for updates" default:"smazurov/obsnode" toml:"update.repository" env:"UPDATE_REPOSITORY"`
	UpdatePrerelease bool   `help:"Include prereleases when checking for updates" default:"false" toml:"update.prerelease" env:"UPDATE_PRERELEASE"`

	// Metrics settings
	MetricsEnabled bool `help:"Expose Prometheus metrics at /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingEngine  string `help:"Engine logging level" default:"info" toml:"logging.engine" env:"LOGGING_ENGINE"`
	LoggingSession string `help:"Session logging level" default:"info" toml:"logging.session" env:"LOGGING_SESSION"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
}

// sessionFileConfig mirrors the [session] table of the config file for the
// reload path.
type sessionFileConfig struct {
	Session session.ResourceConfig `toml:"session"`
}

func resourceConfigFromOptions(opts *Options) session.ResourceConfig {
	cfg := session.DefaultResourceConfig()
	if opts.SessionVideoEncoder != "" {
		cfg.VideoEncoderType = opts.SessionVideoEncoder
	}
	if opts.SessionAudioEncoder != "" {
		cfg.AudioEncoderType = opts.SessionAudioEncoder
	}
	if opts.SessionOutput != "" {
		cfg.OutputType = opts.SessionOutput
	}
	if opts.SessionService != "" {
		cfg.ServiceType = opts.SessionService
	}
	if opts.SessionServiceKey != "" {
		cfg.ServiceKey = opts.SessionServiceKey
	}
	return cfg
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.Load(opts, nil); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"engine":  opts.LoggingEngine,
				"session": opts.LoggingSession,
				"api":     opts.LoggingAPI,
				"http":    opts.LoggingHTTP,
			},
		})

		logger := logging.GetLogger("main")

		// Event bus for in-process lifecycle notifications
		eventBus := events.New()

		// Forward buffered log lines onto the bus for live streaming
		logging.SetEntrySink(func(entry logging.Entry) {
			eventBus.Publish(events.LogEntryEvent{
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		// Keep the engine/session gauges in sync with the bus
		metrics.Observe(eventBus)

		engineCtx := engine.NewContext(engine.NewSim(), logging.GetLogger("engine"))
		manager := session.NewManager(engineCtx, session.Config{
			Locale:    opts.EngineLocale,
			OneShot:   opts.SessionOneShot,
			Resources: resourceConfigFromOptions(opts),
		}, eventBus, logging.GetLogger("session"))

		apiOpts := &api.Options{
			AuthUsername: opts.AuthUsername,
			AuthPassword: opts.AuthPassword,
			Sessions:     manager,
			EventBus:     eventBus,
		}
		if opts.UpdateEnabled {
			updateService, updErr := updater.NewService(&updater.Options{
				Repository: opts.UpdateRepository,
				Prerelease: opts.UpdatePrerelease,
			})
			if updErr != nil {
				logger.Warn("Update service unavailable", "error", updErr)
			} else {
				apiOpts.UpdateService = updateService
			}
		}
		if opts.MetricsEnabled {
			apiOpts.PrometheusHandler = promhttp.Handler()
		}

		server := api.NewServer(apiOpts)

		// Re-apply the [session] resource types when the config file changes.
		// Rejected while a session is active; the next reload wins.
		sessionLoader := func(path string) (session.ResourceConfig, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return session.ResourceConfig{}, err
			}
			var file sessionFileConfig
			if err := toml.Unmarshal(data, &file); err != nil {
				return session.ResourceConfig{}, err
			}
			return file.Session, nil
		}
		watcher := config.NewWatcher(opts.Config, sessionLoader, logger)
		watcher.OnReload(func(cfg session.ResourceConfig) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := manager.SetResourceConfig(cfg).Await(ctx); err != nil {
				logger.Warn("Config reload not applied", "error", err)
			}
		})

		hooks.OnStart(func() {
			if err := watcher.Start(); err != nil {
				logger.Warn("Config watcher not started", "error", err)
			}

			if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
				logger.Warn("systemd readiness notification failed", "error", err)
			} else if sent {
				logger.Debug("systemd notified of readiness")
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			daemon.SdNotify(false, daemon.SdNotifyStopping)

			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Error("Error stopping config watcher", "error", stopErr)
			}
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			manager.Close()
		})
	})

	cli.Root().AddCommand(cmd.CreateRunCmd())
	cli.Root().AddCommand(cmd.CreateVersionCmd())

	cli.Run()
}
