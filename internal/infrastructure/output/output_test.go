package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/recast/internal/application/dto"
	"github.com/reglet-dev/recast/internal/application/ports"
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/values"
	"github.com/reglet-dev/recast/internal/engine"
)

var (
	defsPath = values.NewElementPath(values.PathSegment{Prefix: "bpmn", Local: "definitions", ID: "defs"})
	procPath = defsPath.Child(values.PathSegment{Prefix: "bpmn", Local: "process", ID: "p"})
	taskPath = procPath.Child(values.PathSegment{Prefix: "bpmn", Local: "serviceTask", ID: "svc"})
)

func createTestResponse() *dto.ConvertResponse {
	agg := diagnostics.NewAggregator(nil)
	agg.Visit(defsPath)
	agg.Visit(procPath)
	agg.Add(diagnostics.Message{Severity: values.SevInfo, Code: "converted", Path: procPath, Text: "Process converted."})
	agg.Add(diagnostics.Message{
		Severity: values.SevReview, Code: "job-type-from-class", Path: taskPath, Attribute: "camunda:class",
		Rule: "class", Text: "Job type derived from class.",
	})
	agg.Add(diagnostics.Message{
		Severity: values.SevWarning, Code: "expression", Path: taskPath,
		Text: "Expression partially translated.", Original: "${a.b()}", Translated: "=a.b()",
	})
	report := agg.Report()

	resp := &dto.ConvertResponse{
		Documents: []dto.DocumentResult{
			{
				Input:  "order.bpmn",
				Output: "out/order.bpmn",
				Result: &engine.Result{
					ID:     values.NewConversionID([]byte("x"), values.MustParseTargetVersion("8.6")),
					Target: values.MustParseTargetVersion("8.6"),
					Report: report,
				},
			},
			{Input: "broken.bpmn", Err: errors.New("conversion failed for broken.bpmn: unexpected EOF")},
		},
		Metadata: dto.ResponseMetadata{
			RequestID:   "req-1",
			ProcessedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Duration:    1500 * time.Millisecond,
		},
	}
	resp.Summary = report.Summary
	return resp
}

func TestFormatterFactory_Create(t *testing.T) {
	factory := NewFormatterFactory()
	buf := &bytes.Buffer{}

	tests := []struct {
		format   string
		wantType interface{}
	}{
		{"table", &TableFormatter{}},
		{"markdown", &MarkdownFormatter{}},
		{"csv", &CSVFormatter{}},
		{"json", &JSONFormatter{}},
		{"yaml", &YAMLFormatter{}},
		{"junit", &JUnitFormatter{}},
		{"sarif", &SARIFFormatter{}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			formatter, err := factory.Create(tt.format, buf, ports.FormatterOptions{})
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, formatter)
		})
	}

	_, err := factory.Create("invalid", buf, ports.FormatterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format: invalid")
	assert.Len(t, factory.SupportedFormats(), len(tests))
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf, ports.FormatterOptions{}).Format(createTestResponse()))

	out := buf.String()
	assert.Contains(t, out, "order.bpmn -> out/order.bpmn")
	assert.Contains(t, out, "job-type-from-class")
	assert.Contains(t, out, "Expression partially translated.")
	assert.Contains(t, out, "unexpected EOF")
	assert.Contains(t, out, "Summary")
	assert.NotContains(t, out, "\033[", "colors are off")
}

func TestTableFormatter_TreeAndFilter(t *testing.T) {
	var buf bytes.Buffer
	opts := ports.FormatterOptions{Tree: true, MinSeverity: values.SevReview}
	require.NoError(t, NewTableFormatter(&buf, opts).Format(createTestResponse()))

	out := buf.String()
	assert.Contains(t, out, "bpmn:serviceTask[@id='svc'] @camunda:class")
	assert.NotContains(t, out, "Process converted.")
}

func TestTableFormatter_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf, ports.FormatterOptions{Color: true}).Format(createTestResponse()))
	assert.Contains(t, buf.String(), "\033[")
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(&buf, ports.FormatterOptions{}).Format(createTestResponse()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5, "header, three messages, one failure")
	assert.True(t, strings.HasPrefix(lines[0], "Document,Key,Severity"))
	assert.Contains(t, lines[3], "${a.b()}")
	assert.Contains(t, lines[4], "document-failed")
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf, ports.FormatterOptions{MinSeverity: values.SevWarning}).Format(createTestResponse()))

	out := buf.String()
	assert.Contains(t, out, "| Document |")
	assert.Contains(t, out, "Expression partially translated.")
	assert.NotContains(t, out, "Job type derived from class.")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, ports.FormatterOptions{Indent: true}).Format(createTestResponse()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "req-1", decoded["request_id"])
	assert.EqualValues(t, 1500, decoded["duration_ms"])

	docs := decoded["documents"].([]interface{})
	require.Len(t, docs, 2)
	first := docs[0].(map[string]interface{})
	assert.Equal(t, "8.6.0", first["target_version"])
	assert.Len(t, first["messages"], 3)
	assert.Contains(t, docs[1].(map[string]interface{})["error"], "unexpected EOF")
}

func TestJSONFormatter_Tree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, ports.FormatterOptions{Tree: true}).Format(createTestResponse()))

	var decoded struct {
		Documents []struct {
			Messages []interface{}     `json:"messages"`
			Tree     *diagnostics.Node `json:"tree"`
		} `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Empty(t, decoded.Documents[0].Messages)
	require.NotNil(t, decoded.Documents[0].Tree)
	assert.Equal(t, 1, decoded.Documents[0].Tree.Path.Depth())
	assert.Contains(t, buf.String(), "bpmn:serviceTask[@id='svc']")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(&buf, ports.FormatterOptions{}).Format(createTestResponse()))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "req-1", decoded["request_id"])
	assert.Contains(t, buf.String(), "severity: review")
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJUnitFormatter(&buf, ports.FormatterOptions{}).Format(createTestResponse()))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))
	require.Len(t, suites.TestSuites, 2)

	order := suites.TestSuites[0]
	assert.Equal(t, "order.bpmn", order.Name)
	assert.Equal(t, 2, order.Tests)
	assert.Equal(t, 1, order.Failures)
	require.Len(t, order.TestCases, 2)
	assert.NotEmpty(t, order.TestCases[0].SystemOut)
	assert.Nil(t, order.TestCases[0].Failure)
	require.NotNil(t, order.TestCases[1].Failure)
	assert.Equal(t, "warning", order.TestCases[1].Failure.Type)

	broken := suites.TestSuites[1]
	assert.Equal(t, 1, broken.Errors)
	require.NotNil(t, broken.TestCases[0].Error)

	assert.Equal(t, 3, suites.Tests)
	assert.Equal(t, 1, suites.Errors)
}

func TestSARIFFormatter(t *testing.T) {
	var buf bytes.Buffer
	opts := ports.FormatterOptions{ToolVersion: "1.2.3"}
	require.NoError(t, NewSARIFFormatter(&buf, opts).Format(createTestResponse()))

	report, err := sarif.FromBytes(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, report.Validate())
	require.Len(t, report.Runs, 1)

	tool := report.Runs[0].Tool
	assert.Equal(t, "recast", *tool.Driver.Name)
	assert.Equal(t, "1.2.3", *tool.Driver.Version)

	var raw struct {
		Runs []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
				Kind   string `json:"kind"`
			} `json:"results"`
			Tool struct {
				Driver struct {
					Rules []interface{} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Invocations []struct {
				ExecutionSuccessful bool `json:"executionSuccessful"`
			} `json:"invocations"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	run := raw.Runs[0]
	require.Len(t, run.Results, 4)

	levels := make(map[string]string)
	for _, r := range run.Results {
		levels[r.RuleID] = r.Level
	}
	assert.Equal(t, map[string]string{
		"converted":           "none",
		"job-type-from-class": "note",
		"expression":          "warning",
		"document-failed":     "error",
	}, levels)
	assert.Len(t, run.Tool.Driver.Rules, 4)

	require.Len(t, run.Invocations, 1)
	assert.False(t, run.Invocations[0].ExecutionSuccessful)
}

func TestSeverityMapping(t *testing.T) {
	tests := []struct {
		sev   values.Severity
		level string
		kind  string
	}{
		{values.SevInfo, "none", "informational"},
		{values.SevTask, "note", "fail"},
		{values.SevReview, "note", "fail"},
		{values.SevWarning, "warning", "fail"},
		{values.SevError, "error", "fail"},
	}
	for _, tt := range tests {
		t.Run(tt.sev.String(), func(t *testing.T) {
			assert.Equal(t, tt.level, severityToLevel(tt.sev))
			assert.Equal(t, tt.kind, severityToKind(tt.sev))
		})
	}
}
