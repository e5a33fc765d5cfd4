package config

import "time"

// Config represents the pipelinedoc tool configuration.
type Config struct {
	// Output configures where and how documents are written.
	Output OutputConfig `mapstructure:"output" json:"output"`
	// Repo overrides or supplies the template repository metadata.
	Repo RepoConfig `mapstructure:"repo" json:"repo"`
	// Templates configures template discovery and batch processing.
	Templates TemplatesConfig `mapstructure:"templates" json:"templates"`
	// Validation configures properties file checks.
	Validation ValidationConfig `mapstructure:"validation" json:"validation"`
	// Logging configures the structured logger.
	Logging LoggingConfig `mapstructure:"logging" json:"logging"`
	// Metrics configures run metrics export.
	Metrics MetricsConfig `mapstructure:"metrics" json:"metrics"`
	// Watch configures watch mode.
	Watch WatchConfig `mapstructure:"watch" json:"watch"`

	// File is the absolute path of the configuration file the values were
	// read from, or "" when none was found. It is never documented.
	File string `mapstructure:"-" json:"-"`
}

// OutputConfig represents document output settings.
type OutputConfig struct {
	// Dir is the output directory.
	Dir string `mapstructure:"dir" json:"dir"`
	// HeadingDepth is the heading level of each document title.
	HeadingDepth int `mapstructure:"heading_depth" json:"heading_depth"`
	// Index enables writing index.md.
	Index bool `mapstructure:"index" json:"index"`
	// IndexTitle is the index page heading.
	IndexTitle string `mapstructure:"index_title" json:"index_title"`
	// FrontMatter prefixes every document with YAML front matter.
	FrontMatter bool `mapstructure:"front_matter" json:"front_matter"`
	// Layout is the layout name written into front matter.
	Layout string `mapstructure:"layout" json:"layout"`
}

// RepoConfig represents repository metadata settings.
type RepoConfig struct {
	// Identifier is the repository resource alias used in usage examples.
	Identifier string `mapstructure:"identifier" json:"identifier"`
	// Name overrides the detected repository name.
	Name string `mapstructure:"name" json:"name"`
	// Type overrides the detected repository type (git, github, bitbucket).
	Type string `mapstructure:"type" json:"type"`
	// Ref is the ref consumers should pin.
	Ref string `mapstructure:"ref" json:"ref"`
	// Endpoint is the service connection for github/bitbucket repositories.
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	// Detect enables reading the git remote from .git/config.
	Detect bool `mapstructure:"detect" json:"detect"`
}

// TemplatesConfig represents template discovery settings.
type TemplatesConfig struct {
	// Patterns are glob patterns used when none are given on the command line.
	Patterns []string `mapstructure:"patterns" json:"patterns"`
	// Ignore are glob patterns excluded from discovery.
	Ignore []string `mapstructure:"ignore" json:"ignore"`
	// Concurrency is the number of documents generated in parallel.
	Concurrency int `mapstructure:"concurrency" json:"concurrency"`
}

// ValidationConfig represents properties validation settings.
type ValidationConfig struct {
	// Strict turns warnings into failures.
	Strict bool `mapstructure:"strict" json:"strict"`
}

// LoggingConfig represents logger settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level" json:"level"`
	// Format is console or json.
	Format string `mapstructure:"format" json:"format"`
	// Color enables colored console output.
	Color bool `mapstructure:"color" json:"color"`
}

// MetricsConfig represents metrics export settings.
type MetricsConfig struct {
	// Textfile is a node-exporter textfile path. Empty disables export.
	Textfile string `mapstructure:"textfile" json:"textfile"`
}

// WatchConfig represents watch mode settings.
type WatchConfig struct {
	// Debounce is how long to wait for more events before regenerating.
	Debounce time.Duration `mapstructure:"debounce" json:"debounce"`
}
