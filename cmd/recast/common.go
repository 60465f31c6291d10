package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/recast/internal/application/dto"
	"github.com/reglet-dev/recast/internal/application/ports"
	"github.com/reglet-dev/recast/internal/domain/values"
	"github.com/reglet-dev/recast/internal/infrastructure/output"
	"github.com/reglet-dev/recast/internal/version"
)

// ReportOptions contains the report flags shared by convert and check.
type ReportOptions struct {
	// Output
	Format      string
	ReportFile  string
	MinSeverity string
	FailOn      string

	// Execution
	Timeout time.Duration

	// Flags (bools grouped for alignment)
	Tree  bool
	Color bool
	Quiet bool
}

// DefaultReportOptions returns sensible defaults.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		Format:  "table",
		Timeout: 5 * time.Minute,
		Color:   isTerminal(os.Stdout),
	}
}

// RegisterFlags adds the report flags to a cobra command.
func (opts *ReportOptions) RegisterFlags(cmd *cobra.Command) {
	formats := output.NewFormatterFactory().SupportedFormats()

	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		fmt.Sprintf("Report format: %v", formats))
	cmd.Flags().StringVarP(&opts.ReportFile, "report", "r", "",
		"Report file path (default: stdout)")
	cmd.Flags().StringVar(&opts.MinSeverity, "min-severity", "",
		"Hide messages below this severity: info, task, review, warning, error")
	cmd.Flags().StringVar(&opts.FailOn, "fail-on", "",
		"Exit non-zero when a message has at least this severity")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Timeout for the whole batch (0 to disable)")
	cmd.Flags().BoolVar(&opts.Tree, "tree", false,
		"Group messages by element")
	cmd.Flags().BoolVar(&opts.Color, "color", opts.Color,
		"Colorize table output")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false,
		"Do not print the report")
}

// ValidateFlags validates the report options.
func (opts *ReportOptions) ValidateFlags() error {
	formats := output.NewFormatterFactory().SupportedFormats()
	if !slices.Contains(formats, opts.Format) {
		return fmt.Errorf("invalid format: %s (valid: %v)", opts.Format, formats)
	}
	if _, err := values.NewSeverity(opts.MinSeverity); err != nil {
		return fmt.Errorf("invalid --min-severity: %w", err)
	}
	if _, err := values.NewSeverity(opts.FailOn); err != nil {
		return fmt.Errorf("invalid --fail-on: %w", err)
	}
	return nil
}

// ApplyToContext applies the timeout to ctx.
func (opts *ReportOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return ctx, func() {}
}

// formatterOptions converts the flags. ValidateFlags must have passed.
func (opts *ReportOptions) formatterOptions() ports.FormatterOptions {
	return ports.FormatterOptions{
		MinSeverity: values.MustNewSeverity(opts.MinSeverity),
		Indent:      true,
		Color:       opts.Color && opts.ReportFile == "",
		Tree:        opts.Tree,
		ToolVersion: version.Get().Version,
	}
}

// writeReport formats resp to the report file or to stdout.
func (opts *ReportOptions) writeReport(cctx *CommandContext, stdout io.Writer, resp *dto.ConvertResponse) error {
	if opts.Quiet {
		return nil
	}

	writer := stdout
	if opts.ReportFile != "" {
		//nolint:gosec // G304: User-controlled report path is intentional
		file, err := os.Create(opts.ReportFile)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer func() {
			_ = file.Close() // Best-effort cleanup
		}()
		writer = file
		cctx.Logger.Info("writing report", "file", opts.ReportFile, "format", opts.Format)
	}

	formatter, err := cctx.Container.Formatters().Create(opts.Format, writer, opts.formatterOptions())
	if err != nil {
		return err
	}
	if err := formatter.Format(resp); err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	return nil
}

// exitError decides the command result from the response.
func (opts *ReportOptions) exitError(resp *dto.ConvertResponse) error {
	if n := resp.Failures(); n > 0 {
		return fmt.Errorf("%d of %d document(s) could not be converted", n, len(resp.Documents))
	}
	if opts.FailOn == "" {
		return nil
	}
	threshold := values.MustNewSeverity(opts.FailOn)
	for _, sev := range values.AllSeverities() {
		if sev.IsHigherOrEqual(threshold) && resp.Summary.Count(sev) > 0 {
			return fmt.Errorf("conversion reported %s messages (--fail-on %s)", sev, threshold)
		}
	}
	return nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
