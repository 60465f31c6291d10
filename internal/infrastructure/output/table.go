package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/reglet-dev/recast/internal/application/dto"
	"github.com/reglet-dev/recast/internal/application/ports"
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/values"
)

// TableFormatter formats reports as terminal tables, one per document,
// followed by a summary.
type TableFormatter struct {
	writer  io.Writer
	options ports.FormatterOptions
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer, options ports.FormatterOptions) *TableFormatter {
	return &TableFormatter{writer: w, options: options}
}

// Format writes the response as tables.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) Format(resp *dto.ConvertResponse) error {
	for _, d := range resp.Documents {
		f.formatDocument(d)
	}

	t := f.newWriter()
	t.SetTitle("Summary")
	t.AppendHeader(table.Row{"Documents", "Failed", "Info", "Task", "Review", "Warning", "Error"})
	s := resp.Summary
	t.AppendRow(table.Row{
		len(resp.Documents), resp.Failures(),
		s.Info, s.Task, s.Review,
		f.colorize(s.Warning, values.SevWarning), f.colorize(s.Error, values.SevError),
	})
	fmt.Fprintln(f.writer, t.Render())
	return nil
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatDocument(d dto.DocumentResult) {
	title := d.Input
	if d.Output != "" {
		title += " -> " + d.Output
	}

	if d.Failed() {
		fmt.Fprintf(f.writer, "%s\n  %s\n\n", title, f.colorize(d.Err.Error(), values.SevError))
		return
	}

	t := f.newWriter()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Severity", "Code", "Element", "Message"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 80},
	})

	report := d.Result.Report
	if f.options.Tree {
		filterTree(report.Tree, f.options.MinSeverity).Walk(func(n *diagnostics.Node, depth int) {
			name := strings.Repeat("  ", depth) + n.Name()
			if len(n.Messages) == 0 {
				t.AppendRow(table.Row{"", "", name, ""})
				return
			}
			for _, m := range n.Messages {
				el := name
				if m.Attribute != "" {
					el += " @" + m.Attribute
				}
				t.AppendRow(f.row(m, el))
			}
		})
	} else {
		for _, m := range report.Filter(f.options.MinSeverity) {
			t.AppendRow(f.row(m, m.Location()))
		}
	}

	if t.Length() == 0 {
		fmt.Fprintf(f.writer, "%s\n  no messages\n\n", title)
		return
	}
	fmt.Fprintln(f.writer, t.Render())
	fmt.Fprintln(f.writer)
}

func (f *TableFormatter) row(m diagnostics.Message, element string) table.Row {
	return table.Row{f.colorize(m.Severity, m.Severity), m.Code, element, m.Text}
}

func (f *TableFormatter) newWriter() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	return t
}

func (f *TableFormatter) colorize(v any, sev values.Severity) string {
	s := fmt.Sprint(v)
	if !f.options.Color {
		return s
	}
	return severityColors(sev).Sprint(s)
}

func severityColors(sev values.Severity) text.Colors {
	switch {
	case sev.Equals(values.SevError):
		return text.Colors{text.FgRed, text.Bold}
	case sev.Equals(values.SevWarning):
		return text.Colors{text.FgYellow}
	case sev.Equals(values.SevReview):
		return text.Colors{text.FgCyan}
	case sev.Equals(values.SevTask):
		return text.Colors{text.FgBlue}
	default:
		return text.Colors{text.FgHiBlack}
	}
}

// flatFormatter renders every message of the batch as one table row.
type flatFormatter struct {
	writer  io.Writer
	options ports.FormatterOptions
	render  func(table.Writer) string
}

// NewMarkdownFormatter creates a formatter writing one Markdown table.
func NewMarkdownFormatter(w io.Writer, options ports.FormatterOptions) *MarkdownFormatter {
	return &MarkdownFormatter{flatFormatter{writer: w, options: options, render: table.Writer.RenderMarkdown}}
}

// NewCSVFormatter creates a formatter writing CSV.
func NewCSVFormatter(w io.Writer, options ports.FormatterOptions) *CSVFormatter {
	return &CSVFormatter{flatFormatter{writer: w, options: options, render: table.Writer.RenderCSV}}
}

// MarkdownFormatter formats reports as a single Markdown table.
type MarkdownFormatter struct{ flatFormatter }

// CSVFormatter formats reports as CSV with one record per message.
type CSVFormatter struct{ flatFormatter }

// Format writes every message of the response.
func (f *flatFormatter) Format(resp *dto.ConvertResponse) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Document", "Key", "Severity", "Code", "Rule", "Element", "Message", "Original", "Translated"})
	for _, d := range resp.Documents {
		if d.Failed() {
			t.AppendRow(table.Row{d.Input, "", values.SevError, "document-failed", "", "", d.Err.Error(), "", ""})
			continue
		}
		for _, m := range d.Result.Report.Filter(f.options.MinSeverity) {
			t.AppendRow(table.Row{d.Input, m.Key, m.Severity, m.Code, m.Rule, m.Location(), m.Text, m.Original, m.Translated})
		}
	}
	_, err := fmt.Fprintln(f.writer, f.render(t))
	return err
}
