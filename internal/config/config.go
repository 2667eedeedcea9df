// Package config loads the YAML configuration of the converter.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-tex2html/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Math renderers.
const (
	RendererMathML  = "mathml"
	RendererMathJax = "mathjax"
)

// Environment variables overriding the file.
const (
	EnvLaTeXMLBin   = "TEX2HTML_LATEXML_BIN"
	EnvMathRenderer = "TEX2HTML_MATH_RENDERER"
	EnvLogLevel     = "TEX2HTML_LOG_LEVEL"
)

// Field limits.
const (
	MaxPathLength  = 4096
	MaxURLLength   = 2048 // Browser limit
	MaxClassLength = 100
	MaxNameLength  = 100
	MaxWorkers     = 256
	MaxPreloads    = 32
)

// MaxInputSize limits config files to prevent memory exhaustion (1MB).
var MaxInputSize = 1 << 20

// cssClass matches a single CSS class name.
var cssClass = regexp.MustCompile(`^-?[A-Za-z_][A-Za-z0-9_-]*$`)

// Config holds all configuration for a conversion.
type Config struct {
	LaTeXML     LaTeXMLConfig     `yaml:"latexml"`
	Postprocess PostprocessConfig `yaml:"postprocess"`
	Math        MathConfig        `yaml:"math"`
	S3          S3Config          `yaml:"s3"`
	Log         LogConfig         `yaml:"log"`
}

// LaTeXMLConfig defines the external converter invocation.
type LaTeXMLConfig struct {
	Binary   string   `yaml:"binary"`   // Empty = latexmlc from PATH
	Preloads []string `yaml:"preloads"` // nil = built-in bindings, [] = none
}

// PostprocessConfig defines the HTML pipeline options.
type PostprocessConfig struct {
	Enabled         *bool  `yaml:"enabled"`         // nil = true
	Style           string `yaml:"style"`           // Embedded style name or CSS file path
	CodeTheme       string `yaml:"codeTheme"`       // chroma style name
	ContainerClass  string `yaml:"containerClass"`  // Class of the delivery container
	TableOfContents bool   `yaml:"tableOfContents"` // Insert a navigation list
}

// MathConfig defines math typesetting.
type MathConfig struct {
	Renderer   string        `yaml:"renderer"`   // "mathml" (default) or "mathjax"
	Workers    int           `yaml:"workers"`    // 0 = from GOMAXPROCS
	MathJaxURL string        `yaml:"mathjaxURL"` // Empty = CDN build
	Timeout    time.Duration `yaml:"timeout"`    // Per-fragment limit for mathjax
}

// S3Config defines remote input and output access.
type S3Config struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"` // Custom endpoint (MinIO, localstack)
}

// LogConfig defines logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// PostprocessEnabled reports whether the HTML pipeline runs.
func (c *Config) PostprocessEnabled() bool {
	return c.Postprocess.Enabled == nil || *c.Postprocess.Enabled
}

// Validate checks value ranges and field lengths.
// Called automatically by LoadConfig, but available for callers that build
// a Config by hand.
func (c *Config) Validate() error {
	if err := validateFieldLength("latexml.binary", c.LaTeXML.Binary, MaxPathLength); err != nil {
		return err
	}
	if len(c.LaTeXML.Preloads) > MaxPreloads {
		return fmt.Errorf("%w: latexml.preloads: %d entries (max %d)", ErrInvalidValue, len(c.LaTeXML.Preloads), MaxPreloads)
	}
	for i, p := range c.LaTeXML.Preloads {
		field := fmt.Sprintf("latexml.preloads[%d]", i)
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: %s: empty path", ErrInvalidValue, field)
		}
		if err := validateFieldLength(field, p, MaxPathLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("postprocess.style", c.Postprocess.Style, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("postprocess.codeTheme", c.Postprocess.CodeTheme, MaxNameLength); err != nil {
		return err
	}
	if cls := c.Postprocess.ContainerClass; cls != "" {
		if err := validateFieldLength("postprocess.containerClass", cls, MaxClassLength); err != nil {
			return err
		}
		if !cssClass.MatchString(cls) {
			return fmt.Errorf("%w: postprocess.containerClass: %q is not a CSS class name", ErrInvalidValue, cls)
		}
	}

	switch strings.ToLower(c.Math.Renderer) {
	case "", RendererMathML, RendererMathJax:
	default:
		return fmt.Errorf("%w: math.renderer: %q (must be %s or %s)", ErrInvalidValue, c.Math.Renderer, RendererMathML, RendererMathJax)
	}
	if c.Math.Workers < 0 || c.Math.Workers > MaxWorkers {
		return fmt.Errorf("%w: math.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Math.Workers)
	}
	if c.Math.Timeout < 0 {
		return fmt.Errorf("%w: math.timeout: must not be negative, got %v", ErrInvalidValue, c.Math.Timeout)
	}
	if err := validateFieldLength("math.mathjaxURL", c.Math.MathJaxURL, MaxURLLength); err != nil {
		return err
	}
	if u := c.Math.MathJaxURL; u != "" && !fileutil.IsURL(u) {
		return fmt.Errorf("%w: math.mathjaxURL: %q is not an http(s) URL", ErrInvalidValue, u)
	}

	if err := validateFieldLength("s3.region", c.S3.Region, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("s3.endpoint", c.S3.Endpoint, MaxURLLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level: %q (must be debug, info, warn or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log.format: %q (must be console or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Postprocess: PostprocessConfig{Style: "default"},
		Math:        MathConfig{Renderer: RendererMathML},
		Log:         LogConfig{Level: "info", Format: "console"},
	}
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvLaTeXMLBin); v != "" {
		c.LaTeXML.Binary = v
	}
	if v := getenv(EnvMathRenderer); v != "" {
		c.Math.Renderer = strings.ToLower(v)
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Parse decodes YAML into a copy of DefaultConfig and validates it.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrConfigParse)
	}
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigParse, len(data), MaxInputSize)
	}

	cfg := DefaultConfig()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// UserConfigDir is the per-user directory searched for named configs.
func UserConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "go-tex2html"), nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-tex2html/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if dir, err := UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(dir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
