package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tacogips/pipelinedoc/internal/logging"
	"github.com/tacogips/pipelinedoc/internal/template/model"
)

// ViperLoader layers defaults, a config file, the environment and bound
// command-line flags, in increasing precedence.
type ViperLoader struct {
	v        *viper.Viper
	envFile  string
	searchIn []string
	used     string
}

// NewLoader creates a ViperLoader that searches the working directory and
// the per-user config directory, and reads .env from the working directory.
func NewLoader() *ViperLoader {
	search := []string{"."}
	if dir := DefaultConfigDir(); dir != "" {
		search = append(search, dir)
	}
	return &ViperLoader{
		v:        viper.New(),
		envFile:  ".env",
		searchIn: search,
	}
}

// WithSearchPaths replaces the directories searched for a config file.
func (l *ViperLoader) WithSearchPaths(dirs ...string) *ViperLoader {
	l.searchIn = dirs
	return l
}

// WithEnvFile sets the dotenv file loaded before reading the environment.
// An empty path disables dotenv loading.
func (l *ViperLoader) WithEnvFile(path string) *ViperLoader {
	l.envFile = path
	return l
}

// BindFlag makes a command-line flag override the given key when the flag
// is set explicitly.
func (l *ViperLoader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("flag for %s is not defined", key)
	}
	return l.v.BindPFlag(key, flag)
}

// ConfigFileUsed returns the config file read by the last Load, if any.
func (l *ViperLoader) ConfigFileUsed() string {
	return l.used
}

// Load loads configuration from path, or from the first config file found in
// the search paths when path is empty. A missing default file is not an
// error. Output and metrics paths are returned absolute with ~ expanded.
func (l *ViperLoader) Load(path string) (*Config, error) {
	if err := loadEnvFile(l.envFile); err != nil {
		return nil, err
	}
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to resolve configuration file path", err)
		}
		path = expanded
	}

	v := l.v
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, NewConfigErrorWithCause(ConfigNotFound, path, "configuration file not found", err)
			}
			return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read configuration file", err)
		}
	} else {
		v.SetConfigName(ConfigName)
		for _, dir := range l.searchIn {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, NewConfigErrorWithCause(ConfigInvalid, v.ConfigFileUsed(), "failed to read configuration file", err)
			}
		}
	}
	l.used = v.ConfigFileUsed()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, l.used, "failed to decode configuration", err)
	}
	if err := expandPaths(&cfg); err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, l.used, "failed to resolve configured paths", err)
	}
	if l.used != "" {
		used, err := filepath.Abs(l.used)
		if err != nil {
			return nil, NewConfigErrorWithCause(ConfigInvalid, l.used, "failed to resolve configuration file path", err)
		}
		cfg.File = used
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration.
func (l *ViperLoader) Validate(config *Config) error {
	return Validate(config, l.used)
}

// Validate checks value ranges and enumerations. file is used for error
// context only.
func Validate(config *Config, file string) error {
	if config.Output.HeadingDepth < 1 {
		return NewConfigErrorWithField(ConfigValidationFailed, file, KeyOutputHeadingDepth, "heading depth must be at least 1")
	}
	if config.Templates.Concurrency < 1 {
		return NewConfigErrorWithField(ConfigValidationFailed, file, KeyTemplatesConc, "concurrency must be at least 1")
	}
	if config.Repo.Type != "" && !model.RepoType(config.Repo.Type).Valid() {
		return NewConfigErrorWithField(ConfigValidationFailed, file, KeyRepoType,
			fmt.Sprintf("unknown repository type %q (expected git, github or bitbucket)", config.Repo.Type))
	}
	if _, err := logging.ParseLevel(config.Logging.Level); err != nil {
		return NewConfigErrorWithField(ConfigValidationFailed, file, KeyLoggingLevel, err.Error())
	}
	switch logging.Format(config.Logging.Format) {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		return NewConfigErrorWithField(ConfigValidationFailed, file, KeyLoggingFormat,
			fmt.Sprintf("unknown log format %q (expected console or json)", config.Logging.Format))
	}
	if config.Watch.Debounce < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, file, KeyWatchDebounce, "debounce cannot be negative")
	}
	return nil
}

// loadEnvFile loads a dotenv file into the process environment. Variables
// already set are kept. A missing file is ignored.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return NewConfigErrorWithCause(ConfigInvalid, path, "failed to load env file", err)
	}
	return nil
}

// expandPaths resolves the filesystem paths of cfg with ExpandPath.
func expandPaths(cfg *Config) error {
	for _, p := range []*string{&cfg.Output.Dir, &cfg.Metrics.Textfile} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// ExpandPath expands a leading ~ to the home directory and makes path
// absolute. An empty path stays empty.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:]), nil
		}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	return absPath, nil
}
