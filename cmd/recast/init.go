package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/reglet-dev/recast/internal/domain/values"
	"github.com/reglet-dev/recast/internal/infrastructure/config"
)

// Job type policies offered by init.
const (
	policyDerive  = "derive"
	policyBlank   = "blank"
	policyDefault = "default"
)

// InitOptions holds the answers of recast init.
type InitOptions struct {
	OutputPath     string
	TargetVersion  string
	JobTypePolicy  string
	DefaultJobType string
	DefaultTenant  string
	Force          bool
	NoInteractive  bool
}

func newInitCmd() *cobra.Command {
	defaults := config.DefaultConverterConfig()
	opts := InitOptions{
		OutputPath:     config.DefaultFileName,
		TargetVersion:  defaults.TargetVersion,
		JobTypePolicy:  policyDerive,
		DefaultJobType: defaults.DefaultJobType,
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a converter config file",
		Long: `Create a .recast.yaml with the target version, the job type policy and
the deployment tenant. Prompts for each value unless --no-interactive is set.`,
		Example: `  recast init
  recast init --no-interactive --target-version 8.6 --job-type-policy default`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.NoInteractive {
				if err := promptInit(&opts); err != nil {
					return err
				}
			}
			cfg, err := opts.build()
			if err != nil {
				return err
			}
			if err := writeConfig(cfg, opts.OutputPath, opts.Force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Config saved to %s\n", opts.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", opts.OutputPath, "Config file path")
	cmd.Flags().StringVar(&opts.TargetVersion, "target-version", opts.TargetVersion, "Target Camunda 8 version")
	cmd.Flags().StringVar(&opts.JobTypePolicy, "job-type-policy", opts.JobTypePolicy, "Job types: derive, blank or default")
	cmd.Flags().StringVar(&opts.DefaultJobType, "default-job-type", opts.DefaultJobType, "Job type used when none can be derived")
	cmd.Flags().StringVar(&opts.DefaultTenant, "tenant", "", "Tenant the documents are deployed into")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing config file")
	cmd.Flags().BoolVar(&opts.NoInteractive, "no-interactive", false, "Disable interactive prompts")
	return cmd
}

func promptInit(opts *InitOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target Camunda 8 version").
				Value(&opts.TargetVersion).
				Validate(func(s string) error {
					_, err := values.ParseTargetVersion(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("How should job types be chosen?").
				Options(
					huh.NewOption("Derive from class, expression or topic", policyDerive).Selected(true),
					huh.NewOption("Leave empty for manual assignment", policyBlank),
					huh.NewOption("Use one default job type (adapter)", policyDefault),
				).
				Value(&opts.JobTypePolicy),
			huh.NewInput().
				Title("Default job type").
				Value(&opts.DefaultJobType),
			huh.NewInput().
				Title("Deployment tenant (empty for single tenant)").
				Value(&opts.DefaultTenant),
		),
	).Run()
}

// build turns the answers into a validated config.
func (opts *InitOptions) build() (*config.ConverterConfig, error) {
	cfg := config.DefaultConverterConfig()
	if _, err := values.ParseTargetVersion(opts.TargetVersion); err != nil {
		return nil, err
	}
	cfg.TargetVersion = opts.TargetVersion
	if opts.DefaultJobType != "" {
		cfg.DefaultJobType = opts.DefaultJobType
	}
	cfg.Tenant.DefaultTenant = opts.DefaultTenant

	switch opts.JobTypePolicy {
	case policyDerive:
	case policyBlank:
		cfg.AlwaysBlankJobType = true
	case policyDefault:
		cfg.AlwaysDefaultJobType = true
	default:
		return nil, fmt.Errorf("invalid job type policy: %s (valid: derive, blank, default)", opts.JobTypePolicy)
	}
	return cfg, nil
}

func writeConfig(cfg *config.ConverterConfig, path string, force bool) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := config.Validate(data); err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	//nolint:gosec // G306: config files are not secret
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
