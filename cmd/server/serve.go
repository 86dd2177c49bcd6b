package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phrazzld/richtext-api/internal/config"
	"github.com/phrazzld/richtext-api/internal/platform/logger"
)

// serveFlagKeys maps serve flags onto configuration keys.
var serveFlagKeys = map[string]string{
	"port":      "server.port",
	"log-level": "server.log_level",
	"mode":      "handler.mode",
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd, serveFlagKeys)
			if err != nil {
				return err
			}

			cfg, err := config.LoadWithViper(v)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			l, err := logger.Setup(cfg.Server)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}

			l.Info("server configuration loaded",
				slog.Int("port", cfg.Server.Port),
				slog.String("log_level", cfg.Server.LogLevel),
				slog.String("handler_mode", cfg.Handler.Mode),
				slog.Any("extensions", cfg.Converter.Extensions))

			app, err := newApplication(cfg, l)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return app.startHTTPServer(ctx, app.setupRouter())
		},
	}

	cmd.Flags().Int("port", config.DefaultPort, "port to listen on")
	cmd.Flags().String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	cmd.Flags().String("mode", config.DefaultHandlerMode, "error disclosure mode: lenient or strict")

	return cmd
}
