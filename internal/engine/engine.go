// Package engine converts legacy BPMN and DMN documents into the target
// dialect. A Converter is safe for concurrent use; every Convert call owns
// its source tree, convertibles, target tree and diagnostics.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/reglet-dev/recast/internal/domain/expression"
	"github.com/reglet-dev/recast/internal/domain/jobtype"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/rules/catalog"
	"github.com/reglet-dev/recast/internal/domain/source"
	"github.com/reglet-dev/recast/internal/domain/values"
)

// DefaultTargetVersion is the target version used when none is configured.
const DefaultTargetVersion = "8.8"

// Config controls conversion behavior.
type Config struct {
	// Target is the version of the target engine.
	Target values.TargetVersion
	// DefaultJobType is used when no job type can be derived.
	DefaultJobType string
	// ScriptJobType is the job type of scripts in languages other than FEEL.
	ScriptJobType string
	// AlwaysBlankJobType leaves every job type empty.
	AlwaysBlankJobType bool
	// AlwaysDefaultJobType uses DefaultJobType for every task and keeps the
	// original reference as a header.
	AlwaysDefaultJobType bool
	// JobHeaderKeys name the headers keeping original implementation references.
	JobHeaderKeys jobtype.HeaderKeys
	// HeaderKeys name the headers keeping other legacy values.
	HeaderKeys rules.HeaderKeys
	// Tenant is the default tenant policy; Convert may override it per call.
	Tenant values.TenantPolicy
	// ContextObjects are extra identifiers never translated to FEEL.
	ContextObjects []string
}

// DefaultConfig returns the configuration used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Target:         values.MustParseTargetVersion(DefaultTargetVersion),
		DefaultJobType: jobtype.DefaultJobType,
		ScriptJobType:  catalog.DefaultScriptJobType,
		JobHeaderKeys:  jobtype.DefaultHeaderKeys(),
		HeaderKeys:     rules.DefaultHeaderKeys(),
	}
}

// Converter converts documents with one configuration and rule set.
type Converter struct {
	config   Config
	registry *rules.Registry
	settings rules.Settings
	logger   *slog.Logger
	newKeys  func() values.KeyGenerator
}

// Option configures a Converter.
type Option func(*Converter)

// WithRegistry replaces the built-in rule catalog.
func WithRegistry(r *rules.Registry) Option {
	return func(c *Converter) {
		c.registry = r
	}
}

// WithLogger sets the logger. A nil logger means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithKeyGenerator sets the factory of per-call message key generators.
func WithKeyGenerator(fn func() values.KeyGenerator) Option {
	return func(c *Converter) {
		c.newKeys = fn
	}
}

// NewConverter creates a Converter. Empty configuration fields take their
// defaults.
func NewConverter(cfg Config, opts ...Option) (*Converter, error) {
	if cfg.Target.IsZero() {
		return nil, fmt.Errorf("target version is required")
	}
	defaults := rules.DefaultHeaderKeys()
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&cfg.ScriptJobType, catalog.DefaultScriptJobType},
		{&cfg.HeaderKeys.ResultVariable, defaults.ResultVariable},
		{&cfg.HeaderKeys.ScriptFormat, defaults.ScriptFormat},
		{&cfg.HeaderKeys.Script, defaults.Script},
		{&cfg.HeaderKeys.Resource, defaults.Resource},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}

	resolver := jobtype.NewResolver(jobtype.Policy{
		DefaultJobType: cfg.DefaultJobType,
		AlwaysBlank:    cfg.AlwaysBlankJobType,
		AlwaysDefault:  cfg.AlwaysDefaultJobType,
		HeaderKeys:     cfg.JobHeaderKeys,
	})
	// the resolver fills in defaults; keep the effective values
	policy := resolver.Policy()
	cfg.DefaultJobType = policy.DefaultJobType
	cfg.JobHeaderKeys = policy.HeaderKeys

	c := &Converter{
		config: cfg,
		settings: rules.Settings{
			Target:        cfg.Target,
			JobTypes:      resolver,
			Expressions:   expression.New(expression.WithContextObjects(cfg.ContextObjects...)),
			Tenant:        cfg.Tenant,
			ScriptJobType: cfg.ScriptJobType,
			Headers:       cfg.HeaderKeys,
		},
		newKeys: func() values.KeyGenerator { return values.NewSequentialKeys("") },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = catalog.NewRegistry()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Converter) Config() Config {
	return c.config
}

// Registry returns the rules the converter applies.
func (c *Converter) Registry() *rules.Registry {
	return c.registry
}

// CallOption configures a single Convert call.
type CallOption func(*call)

type call struct {
	keys   values.KeyGenerator
	tenant *values.TenantPolicy
}

// WithKeys sets the message key generator of the call.
func WithKeys(keys values.KeyGenerator) CallOption {
	return func(c *call) {
		c.keys = keys
	}
}

// WithTenant sets the tenant policy of the call.
func WithTenant(policy values.TenantPolicy) CallOption {
	return func(c *call) {
		c.tenant = &policy
	}
}

// Convert converts one document. Only a document that cannot be parsed
// returns an error, a *source.ParseError; everything else is reported in
// the result's diagnostics.
func (c *Converter) Convert(doc []byte, opts ...CallOption) (*Result, error) {
	var cl call
	for _, opt := range opts {
		opt(&cl)
	}
	if cl.keys == nil {
		cl.keys = c.newKeys()
	}
	settings := c.settings
	if cl.tenant != nil {
		settings.Tenant = *cl.tenant
	}

	src, err := source.Parse(doc)
	if err != nil {
		return nil, err
	}

	id := values.NewConversionID(doc, c.config.Target)
	c.logger.Debug("converting document", "id", id.String(), "elements", src.Len(), "target", c.config.Target.String())

	w := newWalker(c.registry, &settings, c.logger, cl.keys)
	w.walk(src.Root())
	out, err := w.emit(src)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize converted document: %w", err)
	}

	report := w.agg.Report()
	c.logger.Debug("converted document", "id", id.String(), "messages", report.Summary.Total, "errors", report.Summary.Error)

	return &Result{
		ID:       id,
		Target:   c.config.Target,
		Document: out,
		Report:   report,
	}, nil
}
