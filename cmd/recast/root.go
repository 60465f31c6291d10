package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reglet-dev/recast/internal/infrastructure/config"
)

// app holds state shared by all commands of one command tree.
type app struct {
	viper   *viper.Viper
	cfgFile string
	verbose bool
	stderr  io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{viper: viper.New(), stderr: os.Stderr}

	rootCmd := &cobra.Command{
		Use:   "recast",
		Short: "Convert Camunda 7 process models for Camunda 8",
		Long: `recast converts Camunda 7 BPMN and DMN documents into documents deployable
on Camunda 8. JUEL expressions are translated to FEEL, camunda extensions are
replaced by their zeebe counterparts, and every change is reported with a
severity so manual follow-up work is visible.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.stderr = cmd.ErrOrStderr()
			a.setupLogging()
			a.initConfig()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./.recast.yaml, then $HOME/.recast.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(
		newConvertCmd(a),
		newCheckCmd(a),
		newRulesCmd(a),
		newInitCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// initConfig resolves the config file and binds RECAST_* environment
// variables.
func (a *app) initConfig() {
	v := a.viper
	v.SetEnvPrefix("RECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if a.cfgFile == "" {
		a.cfgFile = v.GetString("config")
	}
	if a.cfgFile == "" {
		a.cfgFile = defaultConfigPath()
	}
	slog.Debug("using config file", "file", a.cfgFile)
}

// defaultConfigPath returns ./.recast.yaml when present, otherwise
// $HOME/.recast.yaml.
func defaultConfigPath() string {
	if _, err := os.Stat(config.DefaultFileName); err == nil {
		return config.DefaultFileName
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return config.DefaultFileName
	}
	return filepath.Join(home, config.DefaultFileName)
}

func (a *app) logLevel() slog.Level {
	if a.verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func (a *app) setupLogging() {
	// Using TextHandler for CLI friendliness
	logger := slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{
		Level: a.logLevel(),
	}))
	slog.SetDefault(logger)
}
