package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// DefaultPaths are searched in order by LoadAppConfig.
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// Default returns the built-in configuration: the four modes, three
// statuses and four timelines of the infrastructure map with their colours.
func Default() AppConfig {
	return AppConfig{
		Dimensions: DimensionsConfig{
			Modes:     []string{"Pedestrian / Bike", "Transit", "Freight", "Other"},
			Statuses:  []string{"completed", "planned", "eval"},
			Timelines: []string{"completed", "now", "soon", "someday"},
		},
		Colors: map[string]string{
			"Pedestrian / Bike": "rgb(1, 87, 155)",
			"Freight":           "rgb(165, 39, 20)",
			"Transit":           "rgb(15, 157, 88)",
			"Other":             "rgb(230, 81, 0)",
		},
		Logging:    LoggingConfig{Level: "info", Encoding: "console"},
		Inspection: InspectionConfig{Locale: "en", TitleSeparator: " - "},
	}
}

// LoadAppConfig loads and validates the application configuration from the
// first readable file in DefaultPaths.
func LoadAppConfig() error {
	var data []byte
	var err error
	for _, p := range DefaultPaths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// LoadAppConfigFrom loads and validates the configuration at path.
func LoadAppConfigFrom(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	Config = cfg
	return nil
}

// Parse decodes YAML configuration, fills unset sections from Default and
// validates the result.
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	def := Default()
	if len(cfg.Dimensions.Modes) == 0 {
		cfg.Dimensions.Modes = def.Dimensions.Modes
	}
	if len(cfg.Dimensions.Statuses) == 0 {
		cfg.Dimensions.Statuses = def.Dimensions.Statuses
	}
	if len(cfg.Dimensions.Timelines) == 0 {
		cfg.Dimensions.Timelines = def.Dimensions.Timelines
	}
	if cfg.Colors == nil {
		cfg.Colors = def.Colors
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Encoding == "" {
		cfg.Logging.Encoding = def.Logging.Encoding
	}
	if cfg.Inspection.Locale == "" {
		cfg.Inspection.Locale = def.Inspection.Locale
	}
	if cfg.Inspection.TitleSeparator == "" {
		cfg.Inspection.TitleSeparator = def.Inspection.TitleSeparator
	}
}

// Validate checks struct tags and that every mode has a default colour.
func Validate(cfg AppConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	var errs []error
	for _, mode := range cfg.Dimensions.Modes {
		if cfg.Colors[mode] == "" {
			errs = append(errs, fmt.Errorf("mode %q has no default colour", mode))
		}
	}
	seen := map[string]bool{}
	for _, ds := range cfg.Datasets {
		if seen[ds.Name] {
			errs = append(errs, fmt.Errorf("dataset %q configured twice", ds.Name))
		}
		seen[ds.Name] = true
	}
	return errors.Join(errs...)
}

// SelectDataset chooses a dataset by name; fallback to first.
func (c AppConfig) SelectDataset(name string) (DatasetConfig, error) {
	if name != "" {
		for _, ds := range c.Datasets {
			if ds.Name == name {
				return ds, nil
			}
		}
		return DatasetConfig{}, fmt.Errorf("dataset %q not configured (have %v)", name, c.DatasetNames())
	}
	if len(c.Datasets) > 0 {
		return c.Datasets[0], nil
	}
	return DatasetConfig{}, errors.New("no datasets configured")
}

// DatasetNames lists the configured dataset names in order.
func (c AppConfig) DatasetNames() []string {
	names := make([]string, len(c.Datasets))
	for i, ds := range c.Datasets {
		names[i] = ds.Name
	}
	return names
}

// SelectDataset chooses a dataset from the global Config.
func SelectDataset(name string) (DatasetConfig, error) {
	return Config.SelectDataset(name)
}
