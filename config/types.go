package config

// DimensionsConfig lists the property ids of each filter dimension, in the
// order that fixes their mask positions.
type DimensionsConfig struct {
	Modes     []string `yaml:"modes" validate:"required,min=1,unique,dive,required"`
	Statuses  []string `yaml:"statuses" validate:"required,min=1,unique,dive,required"`
	Timelines []string `yaml:"timelines" validate:"required,min=1,unique,dive,required"`
}

// DatasetConfig names a dataset and where to read it from. Data and
// Markdown accept a local path, an http(s) URL or s3://bucket/key.
type DatasetConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Data     string `yaml:"data" validate:"required"`
	Markdown string `yaml:"markdown"`
	// JSONP wraps encoded output, e.g. "infraMap.load(%s);".
	JSONP string `yaml:"jsonp"`
}

// StorageConfig contains the S3-compatible object storage connection used
// for s3:// dataset locations.
type StorageConfig struct {
	Endpoint        string `yaml:"endpoint" validate:"omitempty,hostname_port"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	Region          string `yaml:"region"`
	UseSSL          bool   `yaml:"useSSL"`
	TimeoutMS       int    `yaml:"timeoutMS" validate:"gte=0"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Encoding string `yaml:"encoding" validate:"omitempty,oneof=json console"`
}

// InspectionConfig controls the project listing shown for a feature
type InspectionConfig struct {
	Locale         string `yaml:"locale" validate:"omitempty,bcp47_language_tag"`
	TitleSeparator string `yaml:"titleSeparator"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Dimensions DimensionsConfig `yaml:"dimensions"`
	// Colors maps a mode id to the channel colour used when a project has
	// no explicit colour.
	Colors     map[string]string `yaml:"colors"`
	Datasets   []DatasetConfig   `yaml:"datasets" validate:"dive"`
	Storage    StorageConfig     `yaml:"storage"`
	Logging    LoggingConfig     `yaml:"logging"`
	Inspection InspectionConfig  `yaml:"inspection"`
}
