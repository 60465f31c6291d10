package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/reglet-dev/recast/internal/application/dto"
	"github.com/reglet-dev/recast/internal/domain/values"
	"github.com/reglet-dev/recast/internal/infrastructure/persistence/filesystem"
)

// convertOptions holds the flags of convert and check.
type convertOptions struct {
	report    ReportOptions
	outputDir string
	tenant    string
}

func newConvertCmd(a *app) *cobra.Command {
	opts := &convertOptions{report: DefaultReportOptions()}
	cmd := &cobra.Command{
		Use:   "convert <file|dir|glob>... --output-dir <dir>",
		Short: "Convert documents and write the results",
		Long: `Convert Camunda 7 BPMN and DMN documents for Camunda 8.

Directories are searched recursively for .bpmn, .dmn and .bpmn20.xml files.
Converted documents keep their file name and are written to --output-dir;
a report of every change is printed afterwards.

Exit status is non-zero when a document cannot be read, parsed or written,
or when --fail-on is set and a message reaches that severity.`,
		Example: `  recast convert processes/ -o converted/
  recast convert order.bpmn -o out --target-version 8.6 --format sarif -r report.sarif`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.withContainer(func(cctx *CommandContext, cmd *cobra.Command, args []string) error {
			return runConvert(cctx, cmd, args, opts, false)
		}),
	}
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for converted documents")
	_ = cmd.MarkFlagRequired("output-dir")
	registerConvertFlags(cmd, opts)
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	opts := &convertOptions{report: DefaultReportOptions()}
	cmd := &cobra.Command{
		Use:   "check <file|dir|glob>...",
		Short: "Convert documents without writing them and report the changes",
		Long: `Run the conversion and print the report without writing any document.
Useful in CI together with --fail-on to keep models convertible.`,
		Example: `  recast check processes/ --fail-on warning
  recast check order.bpmn --format junit -r recast.xml`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.withContainer(func(cctx *CommandContext, cmd *cobra.Command, args []string) error {
			return runConvert(cctx, cmd, args, opts, true)
		}),
	}
	registerConvertFlags(cmd, opts)
	return cmd
}

func registerConvertFlags(cmd *cobra.Command, opts *convertOptions) {
	opts.report.RegisterFlags(cmd)
	cmd.Flags().String(flagName("target_version"), "", "Target Camunda 8 version (e.g. 8.6)")
	cmd.Flags().String(flagName("default_job_type"), "", "Job type used when none can be derived")
	cmd.Flags().String(flagName("script_job_type"), "", "Job type of scripts not written in FEEL")
	cmd.Flags().Bool(flagName("always_blank_job_type"), false, "Leave every job type empty")
	cmd.Flags().Bool(flagName("always_default_job_type"), false, "Use the default job type for every task")
	cmd.Flags().Int(flagName("parallelism"), 0, "Documents converted concurrently (0 = one per CPU)")
	cmd.Flags().StringVar(&opts.tenant, "tenant", "", "Tenant the documents are deployed into")
	cmd.MarkFlagsMutuallyExclusive(flagName("always_blank_job_type"), flagName("always_default_job_type"))
}

func runConvert(cctx *CommandContext, cmd *cobra.Command, args []string, opts *convertOptions, check bool) error {
	if err := opts.report.ValidateFlags(); err != nil {
		return err
	}

	inputs, err := filesystem.Expand(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no documents found in %v", args)
	}

	req := dto.ConvertRequest{
		Inputs:    inputs,
		OutputDir: opts.outputDir,
		Options: dto.ConvertOptions{
			Check:       check,
			Parallelism: cctx.Container.Config().Parallelism,
		},
		Metadata: dto.RequestMetadata{RequestID: uuid.NewString()},
	}
	if cmd.Flags().Changed("tenant") {
		req.Options.Tenant = &values.TenantPolicy{DefaultTenant: opts.tenant}
	}

	ctx, cancel := opts.report.ApplyToContext(cctx.Context)
	defer cancel()

	cctx.Logger.Info("converting documents", "count", len(inputs), "check", check, "request_id", req.Metadata.RequestID)
	resp, err := cctx.Container.ConvertDocumentsUseCase().Execute(ctx, req)
	if err != nil {
		return err
	}

	if err := opts.report.writeReport(cctx, cmd.OutOrStdout(), resp); err != nil {
		return err
	}
	return opts.report.exitError(resp)
}
