// Package config loads the converter configuration file.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reglet-dev/recast/internal/domain/jobtype"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/rules/catalog"
	"github.com/reglet-dev/recast/internal/domain/values"
	"github.com/reglet-dev/recast/internal/engine"
)

//go:embed schema.json
var schemaJSON []byte

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = ".recast.yaml"

// ConverterConfig is the on-disk configuration of the converter.
type ConverterConfig struct {
	TargetVersion        string          `yaml:"target_version"`
	DefaultJobType       string          `yaml:"default_job_type"`
	ScriptJobType        string          `yaml:"script_job_type"`
	AlwaysBlankJobType   bool            `yaml:"always_blank_job_type"`
	AlwaysDefaultJobType bool            `yaml:"always_default_job_type"`
	HeaderKeys           HeaderKeys      `yaml:"header_keys"`
	Tenant               TenantConfig    `yaml:"tenant"`
	ContextObjects       []string        `yaml:"context_objects,omitempty"`
	Redaction            RedactionConfig `yaml:"redaction"`
	// Parallelism limits concurrent conversions; 0 means one per CPU.
	Parallelism int `yaml:"parallelism"`
}

// HeaderKeys names the task headers that keep legacy values.
type HeaderKeys struct {
	Class              string `yaml:"class"`
	DelegateExpression string `yaml:"delegate_expression"`
	Expression         string `yaml:"expression"`
	Topic              string `yaml:"topic"`
	Connector          string `yaml:"connector"`
	ResultVariable     string `yaml:"result_variable"`
	Script             string `yaml:"script"`
	ScriptFormat       string `yaml:"script_format"`
	Resource           string `yaml:"resource"`
}

// TenantConfig configures the handling of explicit tenant references.
type TenantConfig struct {
	DefaultTenant string `yaml:"default_tenant"`
}

// RedactionConfig configures how secrets are scrubbed from reports.
type RedactionConfig struct {
	Patterns        []string       `yaml:"patterns,omitempty"`
	DisableGitleaks bool           `yaml:"disable_gitleaks"`
	HashMode        HashModeConfig `yaml:"hash_mode"`
}

// HashModeConfig controls hash-based redaction.
type HashModeConfig struct {
	Salt    string `yaml:"salt,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

// DefaultConverterConfig returns a ConverterConfig with every default filled in.
func DefaultConverterConfig() *ConverterConfig {
	jobKeys := jobtype.DefaultHeaderKeys()
	keys := rules.DefaultHeaderKeys()
	return &ConverterConfig{
		TargetVersion:  engine.DefaultTargetVersion,
		DefaultJobType: jobtype.DefaultJobType,
		ScriptJobType:  catalog.DefaultScriptJobType,
		HeaderKeys: HeaderKeys{
			Class:              jobKeys.Class,
			DelegateExpression: jobKeys.DelegateExpression,
			Expression:         jobKeys.Expression,
			Topic:              jobKeys.Topic,
			Connector:          jobKeys.Connector,
			ResultVariable:     keys.ResultVariable,
			Script:             keys.Script,
			ScriptFormat:       keys.ScriptFormat,
			Resource:           keys.Resource,
		},
	}
}

// Load reads the config file at path. An empty path or a missing file
// yields the defaults.
func Load(path string) (*ConverterConfig, error) {
	if path == "" {
		return DefaultConverterConfig(), nil
	}
	data, err := readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConverterConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func readFile(path string) ([]byte, error) {
	// Security: Use os.OpenRoot to prevent path traversal attacks
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()
	return root.ReadFile(filepath.Base(path))
}

// Parse validates data against the config schema and decodes it over the
// defaults.
func Parse(data []byte) (*ConverterConfig, error) {
	cfg := DefaultConverterConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config YAML: %w", err)
	}
	return cfg, nil
}

// Validate checks a YAML document against the embedded schema.
func Validate(data []byte) error {
	asJSON, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to decode config YAML: %w", err)
	}
	var doc any
	if err := json.Unmarshal(asJSON, &doc); err != nil {
		return fmt.Errorf("failed to decode config YAML: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("failed to add config schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return formatSchemaValidationError(validationErr)
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// formatSchemaValidationError flattens a validation error tree into one
// line per violation.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if e.Message != "" && len(e.Causes) == 0 {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		return fmt.Errorf("config validation failed: %s", err.Error())
	}
	return fmt.Errorf("config validation failed:\n  - %s", strings.Join(messages, "\n  - "))
}

// Marshal encodes the config as YAML.
func (c *ConverterConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// ToEngine converts the file configuration into engine configuration.
func (c *ConverterConfig) ToEngine() (engine.Config, error) {
	target, err := values.ParseTargetVersion(c.TargetVersion)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Target:               target,
		DefaultJobType:       c.DefaultJobType,
		ScriptJobType:        c.ScriptJobType,
		AlwaysBlankJobType:   c.AlwaysBlankJobType,
		AlwaysDefaultJobType: c.AlwaysDefaultJobType,
		JobHeaderKeys: jobtype.HeaderKeys{
			Class:              c.HeaderKeys.Class,
			DelegateExpression: c.HeaderKeys.DelegateExpression,
			Expression:         c.HeaderKeys.Expression,
			Topic:              c.HeaderKeys.Topic,
			Connector:          c.HeaderKeys.Connector,
			Script:             c.HeaderKeys.Script,
		},
		HeaderKeys: rules.HeaderKeys{
			ResultVariable: c.HeaderKeys.ResultVariable,
			ScriptFormat:   c.HeaderKeys.ScriptFormat,
			Script:         c.HeaderKeys.Script,
			Resource:       c.HeaderKeys.Resource,
		},
		Tenant:         values.TenantPolicy{DefaultTenant: c.Tenant.DefaultTenant},
		ContextObjects: append([]string(nil), c.ContextObjects...),
	}, nil
}
