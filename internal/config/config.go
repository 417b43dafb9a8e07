package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/clinicprep/internal/output"
	"github.com/gyeh/clinicprep/internal/sample"
)

// Config holds all runtime configuration for a clinicprep run.
type Config struct {
	DSN        string
	InputPath  string
	OutDir     string
	ConfigPath string
	LogFormat  string // "text" or "json"
	LogLevel   string
	Source     string   // source tag stamped on every example
	AllowNames []string // name-shaped words exempt from redaction
	Seed       uint64
	Sizes      sample.Sizes
	Workers    int
	Store      bool // COPY examples into the label store
	Preview    bool
	S3Bucket   string
	S3Prefix   string
	AWSRegion  string
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Source     *string       `yaml:"source"`
	AllowNames []string      `yaml:"allow_names"`
	Seed       *uint64       `yaml:"seed"`
	Sampling   *yamlSampling `yaml:"sampling"`
	S3Bucket   string        `yaml:"s3_bucket"`
	S3Prefix   string        `yaml:"s3_prefix"`
}

// yamlSampling mirrors sample.Sizes with optional fields so a partial
// block only overrides the keys it names.
type yamlSampling struct {
	Inspection    *int     `yaml:"inspection"`
	ValidationMin *int     `yaml:"validation_min"`
	ValidationMax *int     `yaml:"validation_max"`
	ValidationPct *float64 `yaml:"validation_fraction"`
}

func (y *yamlSampling) apply(s *sample.Sizes) {
	if y.Inspection != nil {
		s.Inspection = *y.Inspection
	}
	if y.ValidationMin != nil {
		s.ValidationMin = *y.ValidationMin
	}
	if y.ValidationMax != nil {
		s.ValidationMax = *y.ValidationMax
	}
	if y.ValidationPct != nil {
		s.ValidationPct = *y.ValidationPct
	}
}

// DefaultAllowNames are month names that double as given names.
var DefaultAllowNames = []string{"May", "June", "August"}

// Defaults returns a Config with every optional field at its default.
func Defaults() Config {
	return Config{
		OutDir:     ".",
		LogFormat:  "text",
		LogLevel:   "info",
		Source:     "clinic",
		AllowNames: append([]string(nil), DefaultAllowNames...),
		Seed:       sample.DefaultSeed,
		Sizes:      sample.DefaultSizes,
		Workers:    1,
		S3Prefix:   "clinicprep",
	}
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Fields absent from the file keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.Source != nil {
		c.Source = *yc.Source
	}
	if yc.AllowNames != nil {
		c.AllowNames = yc.AllowNames
	}
	if yc.Seed != nil {
		c.Seed = *yc.Seed
	}
	if yc.Sampling != nil {
		yc.Sampling.apply(&c.Sizes)
	}
	if yc.S3Bucket != "" {
		c.S3Bucket = yc.S3Bucket
	}
	if yc.S3Prefix != "" {
		c.S3Prefix = yc.S3Prefix
	}
	return c.validateSizes()
}

func (c *Config) validateSizes() error {
	s := c.Sizes
	if s.Inspection < 0 || s.ValidationMin < 0 || s.ValidationMax < 0 {
		return fmt.Errorf("sample sizes must not be negative")
	}
	if s.ValidationMin > s.ValidationMax {
		return fmt.Errorf("validation_min %d exceeds validation_max %d", s.ValidationMin, s.ValidationMax)
	}
	if s.ValidationPct < 0 || s.ValidationPct > 1 {
		return fmt.Errorf("validation_fraction %v outside [0, 1]", s.ValidationPct)
	}
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("--input is required")
	}
	if _, err := os.Stat(c.InputPath); err != nil {
		return fmt.Errorf("input not accessible: %w", err)
	}
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("source tag must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("--workers must be at least 1")
	}
	return c.validateSizes()
}

// ValidateWithDSN checks the input and, when the label store is enabled, the DSN.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Store && c.DSN == "" {
		return fmt.Errorf("--dsn or CLINICPREP_DB_URL is required with --store")
	}
	return nil
}

// OutputPath returns the path of an artifact inside OutDir.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.OutDir, name)
}

// DatasetPath is the primary dataset location.
func (c *Config) DatasetPath() string { return c.OutputPath(output.DatasetFile) }

// SamplePath is the inspection sample location.
func (c *Config) SamplePath() string { return c.OutputPath(output.SampleFile) }

// ValidationPath is the nurse-labeling subset location.
func (c *Config) ValidationPath() string { return c.OutputPath(output.ValidationFile) }

// ReportPath is the quality report location.
func (c *Config) ReportPath() string { return c.OutputPath(output.ReportFile) }
