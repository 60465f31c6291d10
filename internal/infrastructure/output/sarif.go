package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/reglet-dev/recast/internal/application/dto"
	"github.com/reglet-dev/recast/internal/application/ports"
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/values"
)

const (
	toolName = "recast"
	toolURI  = "https://github.com/reglet-dev/recast"
)

// SARIFFormatter formats reports as SARIF 2.1.0 JSON. Message codes become
// rules; every message becomes a result located in its input document.
type SARIFFormatter struct {
	writer  io.Writer
	options ports.FormatterOptions
}

// NewSARIFFormatter creates a new SARIF formatter.
func NewSARIFFormatter(writer io.Writer, options ports.FormatterOptions) *SARIFFormatter {
	return &SARIFFormatter{writer: writer, options: options}
}

// Format writes the response as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(resp *dto.ConvertResponse) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	if f.options.ToolVersion != "" {
		version := f.options.ToolVersion
		run.Tool.Driver.Version = &version
	}

	m := newSARIFMapper(resp, f.options.MinSeverity)
	m.mapToRun(run)
	report.AddRun(run)

	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}
	_, err := f.writer.Write([]byte("\n"))
	return err
}

type sarifMapper struct {
	resp    *dto.ConvertResponse
	minimum values.Severity
	cwd     string
	// highest severity seen per code
	rules map[string]values.Severity
}

func newSARIFMapper(resp *dto.ConvertResponse, minimum values.Severity) *sarifMapper {
	cwd, _ := os.Getwd() // Best effort, ignore error
	return &sarifMapper{
		resp:    resp,
		minimum: minimum,
		cwd:     cwd,
		rules:   make(map[string]values.Severity),
	}
}

func (m *sarifMapper) mapToRun(run *sarif.Run) {
	for _, d := range m.resp.Documents {
		uri := m.normalizeURI(d.Input)
		run.AddArtifact(sarif.NewArtifact().WithLocation(sarif.NewArtifactLocation().WithURI(uri)))

		if d.Failed() {
			run.AddResult(m.documentFailure(d, uri))
			continue
		}
		for _, msg := range d.Result.Report.Filter(m.minimum) {
			run.AddResult(m.mapMessage(msg, uri))
		}
	}
	m.addRules(run)
	m.addInvocation(run)

	props := sarif.NewPropertyBag()
	props.Add("summary", m.resp.Summary)
	run.WithProperties(props)
}

func (m *sarifMapper) mapMessage(msg diagnostics.Message, uri string) *sarif.Result {
	code := msg.Code
	if code == "" {
		code = "message"
	}
	if prev, ok := m.rules[code]; !ok || msg.Severity.IsHigherThan(prev) {
		m.rules[code] = msg.Severity
	}

	result := sarif.NewRuleResult(code)
	result.Level = severityToLevel(msg.Severity)
	result.Kind = severityToKind(msg.Severity)
	result.Message = sarif.NewTextMessage(msg.Text)
	result.Locations = []*sarif.Location{m.location(uri)}

	props := sarif.NewPropertyBag()
	props.Add("key", msg.Key)
	props.Add("severity", msg.Severity.String())
	props.Add("path", msg.Location())
	if msg.Rule != "" {
		props.Add("rule", msg.Rule)
	}
	if msg.Original != "" {
		props.Add("original", msg.Original)
		props.Add("translated", msg.Translated)
	}
	if msg.Link != "" {
		props.Add("link", msg.Link)
	}
	result.WithProperties(props)
	return result
}

func (m *sarifMapper) documentFailure(d dto.DocumentResult, uri string) *sarif.Result {
	m.rules["document-failed"] = values.SevError

	result := sarif.NewRuleResult("document-failed")
	result.Level = "error"
	result.Kind = "fail"
	result.Message = sarif.NewTextMessage(d.Err.Error())
	result.Locations = []*sarif.Location{m.location(uri)}
	return result
}

func (m *sarifMapper) location(uri string) *sarif.Location {
	return sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().WithArtifactLocation(sarif.NewArtifactLocation().WithURI(uri)),
	)
}

// addRules registers one rule per code seen, in sorted order.
func (m *sarifMapper) addRules(run *sarif.Run) {
	codes := make([]string, 0, len(m.rules))
	for code := range m.rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		name := code
		rule := sarif.NewReportingDescriptor().WithID(code).WithName(code)
		rule.WithShortDescription(&sarif.MultiformatMessageString{Text: &name})
		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: severityToLevel(m.rules[code]),
		})
		run.Tool.Driver.AddRule(rule)
	}
}

func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()
	successful := m.resp.Failures() == 0 && !m.resp.HasRuleFaults()
	invocation.ExecutionSuccessful = &successful

	if !m.resp.Metadata.ProcessedAt.IsZero() {
		start := m.resp.Metadata.ProcessedAt.UTC().Format("2006-01-02T15:04:05.000Z")
		end := m.resp.Metadata.ProcessedAt.Add(m.resp.Metadata.Duration).UTC().Format("2006-01-02T15:04:05.000Z")
		invocation.StartTimeUtc = &start
		invocation.EndTimeUtc = &end
	}
	if m.cwd != "" {
		invocation.WorkingDirectory = sarif.NewArtifactLocation().WithURI("file://" + filepath.ToSlash(m.cwd))
	}
	if m.resp.Metadata.RequestID != "" {
		props := sarif.NewPropertyBag()
		props.Add("requestId", m.resp.Metadata.RequestID)
		invocation.WithProperties(props)
	}
	run.AddInvocation(invocation)
}

// normalizeURI converts a file path to a SARIF-compliant URI, relative to
// the working directory when possible.
func (m *sarifMapper) normalizeURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	if m.cwd != "" {
		if rel, err := filepath.Rel(m.cwd, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return "file://" + filepath.ToSlash(abs)
}

func severityToLevel(sev values.Severity) string {
	switch {
	case sev.Equals(values.SevError):
		return "error"
	case sev.Equals(values.SevWarning):
		return "warning"
	case sev.Equals(values.SevReview), sev.Equals(values.SevTask):
		return "note"
	default:
		return "none"
	}
}

func severityToKind(sev values.Severity) string {
	if sev.IsHigherOrEqual(values.SevTask) {
		return "fail"
	}
	return "informational"
}
