package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys, shared by defaults, env binding and CLI flags.
const (
	KeyOutputDir          = "output.dir"
	KeyOutputHeadingDepth = "output.heading_depth"
	KeyOutputIndex        = "output.index"
	KeyOutputIndexTitle   = "output.index_title"
	KeyOutputFrontMatter  = "output.front_matter"
	KeyOutputLayout       = "output.layout"
	KeyRepoIdentifier     = "repo.identifier"
	KeyRepoName           = "repo.name"
	KeyRepoType           = "repo.type"
	KeyRepoRef            = "repo.ref"
	KeyRepoEndpoint       = "repo.endpoint"
	KeyRepoDetect         = "repo.detect"
	KeyTemplatesPatterns  = "templates.patterns"
	KeyTemplatesIgnore    = "templates.ignore"
	KeyTemplatesConc      = "templates.concurrency"
	KeyValidationStrict   = "validation.strict"
	KeyLoggingLevel       = "logging.level"
	KeyLoggingFormat      = "logging.format"
	KeyLoggingColor       = "logging.color"
	KeyMetricsTextfile    = "metrics.textfile"
	KeyWatchDebounce      = "watch.debounce"
)

// EnvPrefix prefixes environment variables (PIPELINEDOC_OUTPUT_DIR, ...).
const EnvPrefix = "PIPELINEDOC"

// ConfigName is the configuration file name without extension.
const ConfigName = ".pipelinedoc"

// DefaultRepoIdentifier is the repository alias used when none is configured.
const DefaultRepoIdentifier = "templates"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:          "./docs",
			HeadingDepth: 1,
			Index:        true,
			IndexTitle:   "Pipeline Docs",
			FrontMatter:  false,
			Layout:       "docs.njk",
		},
		Repo: RepoConfig{
			Identifier: DefaultRepoIdentifier,
			Detect:     true,
		},
		Templates: TemplatesConfig{
			Patterns:    []string{"**/*.yml", "**/*.yaml"},
			Ignore:      DefaultIgnorePatterns(),
			Concurrency: runtime.NumCPU(),
		},
		Validation: ValidationConfig{
			Strict: false,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
			Color:  true,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// DefaultIgnorePatterns returns the default discovery ignore patterns. They
// apply at any depth and exclude the tool's own configuration files.
func DefaultIgnorePatterns() []string {
	return []string{
		"**/node_modules/**",
		"**/.git/**",
		"**/" + ConfigName + ".*",
	}
}

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "pipelinedoc")
}

// setDefaults registers every key with its default so env overrides and
// Unmarshal see the full key set.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault(KeyOutputDir, d.Output.Dir)
	v.SetDefault(KeyOutputHeadingDepth, d.Output.HeadingDepth)
	v.SetDefault(KeyOutputIndex, d.Output.Index)
	v.SetDefault(KeyOutputIndexTitle, d.Output.IndexTitle)
	v.SetDefault(KeyOutputFrontMatter, d.Output.FrontMatter)
	v.SetDefault(KeyOutputLayout, d.Output.Layout)
	v.SetDefault(KeyRepoIdentifier, d.Repo.Identifier)
	v.SetDefault(KeyRepoName, d.Repo.Name)
	v.SetDefault(KeyRepoType, d.Repo.Type)
	v.SetDefault(KeyRepoRef, d.Repo.Ref)
	v.SetDefault(KeyRepoEndpoint, d.Repo.Endpoint)
	v.SetDefault(KeyRepoDetect, d.Repo.Detect)
	v.SetDefault(KeyTemplatesPatterns, d.Templates.Patterns)
	v.SetDefault(KeyTemplatesIgnore, d.Templates.Ignore)
	v.SetDefault(KeyTemplatesConc, d.Templates.Concurrency)
	v.SetDefault(KeyValidationStrict, d.Validation.Strict)
	v.SetDefault(KeyLoggingLevel, d.Logging.Level)
	v.SetDefault(KeyLoggingFormat, d.Logging.Format)
	v.SetDefault(KeyLoggingColor, d.Logging.Color)
	v.SetDefault(KeyMetricsTextfile, d.Metrics.Textfile)
	v.SetDefault(KeyWatchDebounce, d.Watch.Debounce)
}
