package utils

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"helmet-analyzer/models"
)

// EnvPrefix is prepended to every environment override, e.g. HELMET_TRIALS.
const EnvPrefix = "HELMET"

// Header matching strategies.
const (
	HeaderMatchSubstring = "substring"
	HeaderMatchExact     = "exact"
)

// Averaging strategies.
const (
	WeightingPerReading = "per_reading"
	WeightingPerTrial   = "per_trial"
)

// ─── Config structs ─────────────────────────────────────────────────────

type AnalysisConfig struct {
	Trials       []string `yaml:"trials"`
	Sections     []string `yaml:"sections"`
	HeaderMatch  string   `yaml:"header_match"`
	Weighting    string   `yaml:"weighting"`
	FSRThreshold int      `yaml:"fsr_threshold"`
}

type ExportConfig struct {
	CSV  bool `yaml:"csv"`
	XLSX bool `yaml:"xlsx"`
}

type ReportConfig struct {
	OutputDir     string       `yaml:"output_dir"`
	RunPrefix     string       `yaml:"run_prefix"`
	Charts        bool         `yaml:"charts"`
	ExtendedTable bool         `yaml:"extended_table"`
	Export        ExportConfig `yaml:"export"`
}

// Config is the top-level structure for analysis.yaml.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Report   ReportConfig   `yaml:"report"`

	sections []models.Section
}

// envOverrides mirrors the settings that may be replaced from the environment.
// Unset variables leave the pointer nil / the slice empty.
type envOverrides struct {
	Trials       []string `envconfig:"TRIALS"`
	Sections     []string `envconfig:"SECTIONS"`
	HeaderMatch  string   `envconfig:"HEADER_MATCH"`
	Weighting    string   `envconfig:"WEIGHTING"`
	FSRThreshold *int     `envconfig:"FSR_THRESHOLD"`
	OutputDir    string   `envconfig:"OUTPUT_DIR"`
	RunPrefix    string   `envconfig:"RUN_PREFIX"`
	Charts       *bool    `envconfig:"CHARTS"`
	ExportCSV    *bool    `envconfig:"EXPORT_CSV"`
	ExportXLSX   *bool    `envconfig:"EXPORT_XLSX"`
}

// DefaultConfig returns the three-trial helmet experiment setup.
func DefaultConfig() *Config {
	labels := make([]string, 0, 3)
	for _, s := range models.AllSections() {
		labels = append(labels, s.Label())
	}
	return &Config{
		Analysis: AnalysisConfig{
			Trials:       []string{"helmet_data_1.csv", "helmet_data_2.csv", "helmet_data_3.csv"},
			Sections:     labels,
			HeaderMatch:  HeaderMatchSubstring,
			Weighting:    WeightingPerReading,
			FSRThreshold: 50,
		},
		Report: ReportConfig{
			OutputDir:     "reports",
			RunPrefix:     "helmet",
			Charts:        true,
			ExtendedTable: true,
		},
	}
}

// ─── Loaders ────────────────────────────────────────────────────────────

// LoadConfig builds the effective configuration: defaults, then the YAML file
// at path (skipped when path is empty), then HELMET_* environment variables.
// The result is validated before it is returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("load config from env: %w", err)
	}

	if len(env.Trials) > 0 {
		c.Analysis.Trials = env.Trials
	}
	if len(env.Sections) > 0 {
		c.Analysis.Sections = env.Sections
	}
	if env.HeaderMatch != "" {
		c.Analysis.HeaderMatch = env.HeaderMatch
	}
	if env.Weighting != "" {
		c.Analysis.Weighting = env.Weighting
	}
	if env.FSRThreshold != nil {
		c.Analysis.FSRThreshold = *env.FSRThreshold
	}
	if env.OutputDir != "" {
		c.Report.OutputDir = env.OutputDir
	}
	if env.RunPrefix != "" {
		c.Report.RunPrefix = env.RunPrefix
	}
	if env.Charts != nil {
		c.Report.Charts = *env.Charts
	}
	if env.ExportCSV != nil {
		c.Report.Export.CSV = *env.ExportCSV
	}
	if env.ExportXLSX != nil {
		c.Report.Export.XLSX = *env.ExportXLSX
	}
	return nil
}

// Validate checks the configuration and resolves section labels.
// It must be called again after the config is modified by hand.
func (c *Config) Validate() error {
	a := c.Analysis
	if len(a.Trials) == 0 {
		return errors.New("no trial files configured")
	}
	if len(a.Sections) == 0 {
		return errors.New("no sections configured")
	}

	seen := make(map[models.Section]bool, len(a.Sections))
	sections := make([]models.Section, 0, len(a.Sections))
	for _, label := range a.Sections {
		s, err := models.ParseSection(label)
		if err != nil {
			return err
		}
		if seen[s] {
			return fmt.Errorf("section %q listed twice", label)
		}
		seen[s] = true
		sections = append(sections, s)
	}

	switch a.HeaderMatch {
	case HeaderMatchSubstring, HeaderMatchExact:
	default:
		return fmt.Errorf("unknown header_match %q (want %s or %s)",
			a.HeaderMatch, HeaderMatchSubstring, HeaderMatchExact)
	}
	switch a.Weighting {
	case WeightingPerReading, WeightingPerTrial:
	default:
		return fmt.Errorf("unknown weighting %q (want %s or %s)",
			a.Weighting, WeightingPerReading, WeightingPerTrial)
	}
	if a.FSRThreshold < 0 {
		return fmt.Errorf("fsr_threshold must be >= 0, got %d", a.FSRThreshold)
	}
	if c.Report.OutputDir == "" {
		return errors.New("report.output_dir is empty")
	}

	c.sections = sections
	return nil
}

// SectionList returns the configured sections in configured order.
// Only valid after Validate has succeeded.
func (c *Config) SectionList() []models.Section {
	return append([]models.Section(nil), c.sections...)
}
