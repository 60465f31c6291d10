// Package container provides dependency injection for the application.
package container

import (
	"io"
	"log/slog"

	apperrors "github.com/reglet-dev/recast/internal/application/errors"
	"github.com/reglet-dev/recast/internal/application/services"
	"github.com/reglet-dev/recast/internal/engine"
	"github.com/reglet-dev/recast/internal/infrastructure/config"
	"github.com/reglet-dev/recast/internal/infrastructure/output"
	"github.com/reglet-dev/recast/internal/infrastructure/persistence/filesystem"
	"github.com/reglet-dev/recast/internal/infrastructure/redaction"
)

// Container holds all application dependencies.
type Container struct {
	config     *config.ConverterConfig
	converter  *engine.Converter
	store      *filesystem.DocumentStore
	redactor   *redaction.Redactor
	formatters *output.FormatterFactory
	logger     *slog.Logger
}

// Options configure the container.
type Options struct {
	// ConfigPath is the converter config file. A missing file means defaults.
	ConfigPath string
	// Overrides is applied to the loaded config before it is used; the CLI
	// passes flag and environment values through it.
	Overrides func(*config.ConverterConfig)
	// LogWriter receives log output through the redactor. When nil, Logger
	// (or slog.Default) is used unchanged.
	LogWriter io.Writer
	LogLevel  slog.Level
	Logger    *slog.Logger
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, apperrors.NewConfigurationError("config", "failed to load "+opts.ConfigPath, err)
	}
	if opts.Overrides != nil {
		opts.Overrides(cfg)
	}

	redactor, err := redaction.New(redaction.Config{
		Patterns:        cfg.Redaction.Patterns,
		HashMode:        cfg.Redaction.HashMode.Enabled,
		Salt:            cfg.Redaction.HashMode.Salt,
		DisableGitleaks: cfg.Redaction.DisableGitleaks,
	}, logger)
	if err != nil {
		return nil, apperrors.NewConfigurationError("redaction", "invalid redaction settings", err)
	}

	if opts.LogWriter != nil {
		logger = slog.New(slog.NewTextHandler(redaction.NewWriter(opts.LogWriter, redactor), &slog.HandlerOptions{
			Level: opts.LogLevel,
		}))
	}

	engineCfg, err := cfg.ToEngine()
	if err != nil {
		return nil, apperrors.NewConfigurationError("target_version", "invalid target version", err)
	}
	converter, err := engine.NewConverter(engineCfg, engine.WithLogger(logger))
	if err != nil {
		return nil, apperrors.NewConfigurationError("engine", "failed to create converter", err)
	}

	logger.Debug("container initialized",
		"config", opts.ConfigPath,
		"target_version", engineCfg.Target.String(),
		"default_job_type", converter.Config().DefaultJobType)

	return &Container{
		config:     cfg,
		converter:  converter,
		store:      filesystem.NewDocumentStore(),
		redactor:   redactor,
		formatters: output.NewFormatterFactory(),
		logger:     logger,
	}, nil
}

// ConvertDocumentsUseCase returns the batch conversion use case.
func (c *Container) ConvertDocumentsUseCase() *services.ConvertDocumentsUseCase {
	return services.NewConvertDocumentsUseCase(c.converter, c.store, c.store, c.redactor, c.logger)
}

// ListRulesUseCase returns the rule listing use case.
func (c *Container) ListRulesUseCase() *services.ListRulesUseCase {
	return services.NewListRulesUseCase(c.converter.Registry())
}

// Config returns the effective converter configuration.
func (c *Container) Config() *config.ConverterConfig {
	return c.config
}

// Converter returns the document converter.
func (c *Container) Converter() *engine.Converter {
	return c.converter
}

// Formatters returns the report formatter factory.
func (c *Container) Formatters() *output.FormatterFactory {
	return c.formatters
}

// Logger returns the logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
