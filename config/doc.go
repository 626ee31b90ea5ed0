// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// It fixes the filter dimensions, the default colour of every mode, and the
// named datasets the CLI can load; datasets are selected by name.
package config
