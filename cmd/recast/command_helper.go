package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/recast/internal/infrastructure/config"
	"github.com/reglet-dev/recast/internal/infrastructure/container"
)

// CommandContext provides common command dependencies.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// overrideKeys are the viper keys that override config file values. Each
// is set by its flag (dashes instead of underscores) or by RECAST_<KEY>.
var overrideKeys = []string{
	"target_version",
	"default_job_type",
	"script_job_type",
	"always_blank_job_type",
	"always_default_job_type",
	"parallelism",
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// bindFlags binds the override flags the command defines.
func (a *app) bindFlags(cmd *cobra.Command) error {
	for _, key := range overrideKeys {
		flag := cmd.Flags().Lookup(flagName(key))
		if flag == nil {
			continue
		}
		if err := a.viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag.Name, err)
		}
	}
	return nil
}

func (a *app) overrides(cfg *config.ConverterConfig) {
	v := a.viper
	if v.IsSet("target_version") {
		cfg.TargetVersion = v.GetString("target_version")
	}
	if v.IsSet("default_job_type") {
		cfg.DefaultJobType = v.GetString("default_job_type")
	}
	if v.IsSet("script_job_type") {
		cfg.ScriptJobType = v.GetString("script_job_type")
	}
	if v.IsSet("always_blank_job_type") {
		cfg.AlwaysBlankJobType = v.GetBool("always_blank_job_type")
	}
	if v.IsSet("always_default_job_type") {
		cfg.AlwaysDefaultJobType = v.GetBool("always_default_job_type")
	}
	if v.IsSet("parallelism") {
		cfg.Parallelism = v.GetInt("parallelism")
	}
}

// withContainer wraps a command handler with container initialization.
func (a *app) withContainer(handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.bindFlags(cmd); err != nil {
			return err
		}

		c, err := container.New(container.Options{
			ConfigPath: a.cfgFile,
			Overrides:  a.overrides,
			LogWriter:  a.stderr,
			LogLevel:   a.logLevel(),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return handler(&CommandContext{
			Container: c,
			Logger:    c.Logger(),
			Context:   ctx,
		}, cmd, args)
	}
}
