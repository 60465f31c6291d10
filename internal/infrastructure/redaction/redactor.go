// Package redaction scrubs secrets from conversion reports and log output.
package redaction

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
)

const placeholder = "[REDACTED]"

// Redactor replaces secrets in strings. It is read-only after construction
// and safe for concurrent use.
type Redactor struct {
	patterns []*regexp.Regexp
	hashMode bool
	salt     string
	// nil when gitleaks is disabled or failed to load
	detector *detect.Detector
}

// Config holds the configuration for the Redactor.
type Config struct {
	// Patterns are additional regular expressions to redact, matched after
	// the built-in ones.
	Patterns []string
	// HashMode replaces secrets with a salted hash so equal secrets stay
	// correlatable across a report.
	HashMode bool
	Salt     string
	// DisableGitleaks restricts detection to the regex patterns.
	DisableGitleaks bool
}

// New creates a Redactor. A gitleaks setup failure is logged and detection
// falls back to the regex patterns.
func New(cfg Config, logger *slog.Logger) (*Redactor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Redactor{
		hashMode: cfg.HashMode,
		salt:     cfg.Salt,
		patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns)+len(builtinPatterns)),
	}

	if !cfg.DisableGitleaks {
		detector, err := newGitleaksDetector()
		if err != nil {
			logger.Warn("gitleaks detector unavailable, using regex patterns only", "error", err)
		} else {
			r.detector = detector
		}
	}

	for _, p := range builtinPatterns {
		r.patterns = append(r.patterns, regexp.MustCompile(p))
	}
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	return r, nil
}

// newGitleaksDetector builds a detector from the gitleaks default rules.
func newGitleaksDetector() (*detect.Detector, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(config.DefaultConfig)); err != nil {
		return nil, fmt.Errorf("failed to read gitleaks config: %w", err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gitleaks config: %w", err)
	}

	cfg, err := vc.Translate()
	if err != nil {
		return nil, fmt.Errorf("failed to translate gitleaks config: %w", err)
	}

	return detect.NewDetector(cfg), nil
}

// ScrubString replaces every detected secret in input.
func (r *Redactor) ScrubString(input string) string {
	if input == "" {
		return ""
	}
	result := input

	if r.detector != nil {
		for _, finding := range r.detector.Detect(detect.Fragment{Raw: result}) {
			if finding.Secret == "" {
				continue
			}
			result = strings.ReplaceAll(result, finding.Secret, r.replacement(finding.Secret))
		}
	}

	for _, re := range r.patterns {
		result = re.ReplaceAllStringFunc(result, r.replacement)
	}
	return result
}

func (r *Redactor) replacement(secret string) string {
	if !r.hashMode {
		return placeholder
	}
	mac := hmac.New(sha256.New, []byte(r.salt))
	mac.Write([]byte(secret))
	// 8 bytes is enough to correlate within one report
	return fmt.Sprintf("[hmac:%s]", hex.EncodeToString(mac.Sum(nil))[:16])
}

// builtinPatterns catch secrets commonly pasted into legacy process models:
// connector credentials, inline script tokens and field injections.
var builtinPatterns = []string{
	// AWS access key id
	`\b((?:AKIA|ABIA|ACCA|ASIA)[0-9A-Z]{16})\b`,
	`-----BEGIN [A-Z ]+ PRIVATE KEY-----`,
	`gh[pousr]_[A-Za-z0-9_]{36,255}`,
	`xox[baprs]-([0-9a-zA-Z]{10,48})?`,
	// basic-auth credentials embedded in URLs
	`://[^/\s:@]+:[^/\s@]+@`,
}
