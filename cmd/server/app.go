package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/richtext-api/internal/api"
	"github.com/phrazzld/richtext-api/internal/config"
	"github.com/phrazzld/richtext-api/internal/richtext"
)

// application holds all the shared application dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	converter      richtext.Converter
	convertHandler *api.ConvertHandler
	healthHandler  *api.HealthHandler
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	converter, err := newConverter(cfg.Converter)
	if err != nil {
		return nil, err
	}
	app.converter = converter
	logger.Info("markdown converter initialized",
		slog.Any("extensions", cfg.Converter.Extensions))

	app.convertHandler, err = api.NewConvertHandler(
		app.converter,
		api.ConvertHandlerOptions{
			Mode:         cfg.Handler.Mode,
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize convert handler: %w", err)
	}

	app.healthHandler = api.NewHealthHandler(nil)

	return app, nil
}

// newConverter builds the goldmark converter with output schema validation.
func newConverter(cfg config.ConverterConfig) (*richtext.GoldmarkConverter, error) {
	validator, err := richtext.NewSchemaValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to compile document schema: %w", err)
	}

	converter, err := richtext.NewGoldmarkConverter(richtext.Options{
		Extensions: cfg.Extensions,
		Validator:  validator,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize converter: %w", err)
	}

	return converter, nil
}
