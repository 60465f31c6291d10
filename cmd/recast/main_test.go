package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/recast/internal/infrastructure/config"
)

const orderProcess = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL" xmlns:camunda="http://camunda.org/schema/1.0/bpmn" id="defs">
  <bpmn:process id="order" isExecutable="true">
    <bpmn:serviceTask id="ship" camunda:class="com.acme.ShipOrder"/>
    <bpmn:serviceTask id="bill" camunda:delegateExpression="${billing.charge(order)}"/>
  </bpmn:process>
</bpmn:definitions>`

// execute runs a fresh command tree with an isolated config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type jsonReport struct {
	Summary struct {
		Review int `json:"review"`
	} `json:"summary"`
	Documents []struct {
		Input  string `json:"input"`
		Output string `json:"output"`
		Target string `json:"target_version"`
		Error  string `json:"error"`
	} `json:"documents"`
}

func decodeReport(t *testing.T, out string) jsonReport {
	t.Helper()
	var r jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &r), out)
	return r
}

func TestConvert(t *testing.T) {
	in := t.TempDir()
	writeDoc(t, in, "order.bpmn", orderProcess)
	outDir := filepath.Join(t.TempDir(), "converted")

	out, err := execute(t, "convert", in, "-o", outDir, "--format", "json", "--target-version", "8.6")
	require.NoError(t, err)

	report := decodeReport(t, out)
	require.Len(t, report.Documents, 1)
	assert.Equal(t, filepath.Join(outDir, "order.bpmn"), report.Documents[0].Output)
	assert.Equal(t, "8.6.0", report.Documents[0].Target)
	assert.GreaterOrEqual(t, report.Summary.Review, 1)

	converted, err := os.ReadFile(filepath.Join(outDir, "order.bpmn"))
	require.NoError(t, err)
	assert.Contains(t, string(converted), `<zeebe:taskDefinition type="shipOrder"/>`)
	assert.NotContains(t, string(converted), "camunda:class")
}

func TestConvert_RequiresOutputDir(t *testing.T) {
	in := t.TempDir()
	writeDoc(t, in, "order.bpmn", orderProcess)

	_, err := execute(t, "convert", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output-dir")
}

func TestCheck(t *testing.T) {
	in := t.TempDir()
	writeDoc(t, in, "order.bpmn", orderProcess)

	t.Run("writes nothing", func(t *testing.T) {
		out, err := execute(t, "check", in, "--format", "json")
		require.NoError(t, err)
		report := decodeReport(t, out)
		require.Len(t, report.Documents, 1)
		assert.Empty(t, report.Documents[0].Output)
	})

	t.Run("fail on review", func(t *testing.T) {
		_, err := execute(t, "check", in, "--fail-on", "review", "-q")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--fail-on review")
	})

	t.Run("fail on warning passes", func(t *testing.T) {
		_, err := execute(t, "check", in, "--fail-on", "warning", "-q")
		assert.NoError(t, err)
	})

	t.Run("invalid flags", func(t *testing.T) {
		_, err := execute(t, "check", in, "--format", "html")
		assert.ErrorContains(t, err, "invalid format")
		_, err = execute(t, "check", in, "--min-severity", "loud")
		assert.ErrorContains(t, err, "--min-severity")
	})
}

func TestCheck_BrokenDocument(t *testing.T) {
	in := t.TempDir()
	writeDoc(t, in, "a.bpmn", orderProcess)
	writeDoc(t, in, "b.bpmn", "<bpmn:definitions")

	out, err := execute(t, "check", in, "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 document(s)")

	report := decodeReport(t, out)
	require.Len(t, report.Documents, 2)
	assert.Empty(t, report.Documents[0].Error)
	assert.NotEmpty(t, report.Documents[1].Error)
}

func TestCheck_EnvOverride(t *testing.T) {
	in := t.TempDir()
	writeDoc(t, in, "order.bpmn", orderProcess)
	t.Setenv("RECAST_TARGET_VERSION", "8.2")

	out, err := execute(t, "check", in, "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "8.2.0", decodeReport(t, out).Documents[0].Target)

	// flags win over the environment
	out, err = execute(t, "check", in, "--format", "json", "--target-version", "8.7")
	require.NoError(t, err)
	assert.Equal(t, "8.7.0", decodeReport(t, out).Documents[0].Target)
}

func TestCheck_ReportFile(t *testing.T) {
	in := t.TempDir()
	writeDoc(t, in, "order.bpmn", orderProcess)
	reportPath := filepath.Join(t.TempDir(), "report.xml")

	out, err := execute(t, "check", in, "--format", "junit", "-r", reportPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<testsuites")
}

func TestRules(t *testing.T) {
	out, err := execute(t, "rules", "--namespace", "camunda", "--node", "attribute", "--format", "json")
	require.NoError(t, err)

	var rules []struct {
		Name string `json:"name"`
		Node string `json:"node"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	require.NotEmpty(t, rules)
	for _, r := range rules {
		assert.Equal(t, "attribute", r.Node, r.Name)
	}

	_, err = execute(t, "rules", "--node", "comment")
	assert.Error(t, err)
}

func TestInit_NoInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".recast.yaml")

	out, err := execute(t, "init", "--no-interactive", "-o", path,
		"--target-version", "8.6", "--job-type-policy", "default", "--tenant", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8.6", cfg.TargetVersion)
	assert.True(t, cfg.AlwaysDefaultJobType)
	assert.Equal(t, "acme", cfg.Tenant.DefaultTenant)

	_, err = execute(t, "init", "--no-interactive", "-o", path)
	assert.ErrorContains(t, err, "already exists")
	_, err = execute(t, "init", "--no-interactive", "-o", path, "--force")
	assert.NoError(t, err)

	_, err = execute(t, "init", "--no-interactive", "-o", path, "--force", "--job-type-policy", "random")
	assert.ErrorContains(t, err, "invalid job type policy")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "recast version")
}
