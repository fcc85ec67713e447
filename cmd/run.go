package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smazurov/obsnode/internal/engine"
	"github.com/smazurov/obsnode/internal/events"
	"github.com/smazurov/obsnode/internal/logging"
	"github.com/smazurov/obsnode/internal/session"
	"github.com/spf13/cobra"
)

// CreateRunCmd creates the run command.
func CreateRunCmd() *cobra.Command {
	var size string
	var speakers string
	var duration time.Duration
	var oneShot bool
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "run [target-url]",
		Short: "Run a single streaming session",
		Long: `Boots the engine, applies the base audio/video configuration and streams to ` +
			`the given target URL until interrupted (or until --duration elapses). ` +
			`Intended for smoke-testing a session without the HTTP server.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			target := args[0]

			loggingConfig := logging.Config{
				Level:  "info",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("session").With("target", target)

			bus := events.New()
			manager := session.NewManager(
				engine.NewContext(engine.NewSim(), logger),
				session.Config{OneShot: oneShot},
				bus,
				logger,
			)
			defer manager.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			version, err := manager.Initialize().Await(context.Background())
			if err != nil {
				logger.Error("Engine initialization failed", "error", err)
				os.Exit(1)
			}
			logger.Info("Engine initialized", "version", version)

			if applied, resetErr := manager.ResetVideo(size).Await(context.Background()); resetErr != nil {
				logger.Error("Video reset failed", "error", resetErr)
				os.Exit(1)
			} else {
				logger.Info("Video configured", "size", applied)
			}
			if applied, resetErr := manager.ResetAudio(speakers).Await(context.Background()); resetErr != nil {
				logger.Error("Audio reset failed", "error", resetErr)
				os.Exit(1)
			} else {
				logger.Info("Audio configured", "speakers", applied)
			}

			if _, startErr := manager.StartOutput(target).Await(context.Background()); startErr != nil {
				logger.Error("Session start failed", "error", startErr)
				os.Exit(1)
			}

			if oneShot {
				logger.Info("One-shot attempt completed")
			} else {
				logger.Info("Session running, waiting for interrupt")
				<-ctx.Done()

				if _, stopErr := manager.StopOutput().Await(context.Background()); stopErr != nil {
					logger.Error("Session stop failed", "error", stopErr)
				}
			}

			if _, shutdownErr := manager.Shutdown().Await(context.Background()); shutdownErr != nil {
				logger.Error("Engine shutdown failed", "error", shutdownErr)
				os.Exit(1)
			}
			logger.Info("Engine shut down")
		},
	}

	cmd.Flags().StringVar(&size, "size", "", "Base canvas size as WIDTHxHEIGHT (defaults to 640x360)")
	cmd.Flags().StringVar(&speakers, "speakers", "stereo", "Speaker layout hint (stereo or mono)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Stop the session after this duration (0 = run until interrupted)")
	cmd.Flags().BoolVar(&oneShot, "one-shot", false, "Release the session right after the start call succeeds")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Output logs in JSON format")

	return cmd
}
