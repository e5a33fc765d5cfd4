package app

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/tacogips/pipelinedoc/internal/config"
	"github.com/tacogips/pipelinedoc/internal/logging"
	"github.com/tacogips/pipelinedoc/internal/template/model"
	"github.com/tacogips/pipelinedoc/internal/template/provider"
	"github.com/tacogips/pipelinedoc/internal/watch"
)

// WatchOptions holds options for watch mode.
type WatchOptions struct {
	GenerateOptions

	// OnGenerate is called after every run, including the initial one.
	OnGenerate func(result *GenerateResult, err error)
}

// Watch generates documentation once and then again whenever a template or
// properties file under the base directory changes, until ctx is canceled.
func Watch(ctx context.Context, opts WatchOptions) error {
	log := logging.Component("app")

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
		opts.Config = cfg
	}

	report := func(result *GenerateResult, err error) {
		if opts.OnGenerate != nil {
			opts.OnGenerate(result, err)
		}
	}

	result, err := Generate(ctx, opts.GenerateOptions)
	report(result, err)
	if err != nil {
		return NewWatchError("initial generation failed", err)
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = cfg.Templates.Patterns
	}
	matcher, err := provider.NewLocalProviderWithBase(result.BaseDir, cfg.Templates.Ignore).Matcher(patterns)
	if err != nil {
		return NewWatchError("invalid template patterns", err)
	}

	dirs, err := watchDirs(result.BaseDir, matcher)
	if err != nil {
		return NewWatchError("failed to list template directories", err)
	}

	match := func(path string) bool {
		rel, err := filepath.Rel(result.BaseDir, path)
		if err != nil {
			return false
		}
		rel = filepath.ToSlash(rel)
		if matcher.Match(rel) {
			return true
		}
		return model.IsPropertiesPath(rel) && !matcher.Ignored(rel)
	}

	w := watch.New(dirs, cfg.Watch.Debounce, match)
	w.SkipDir = func(path string) bool {
		rel, err := filepath.Rel(result.BaseDir, path)
		if err != nil {
			return true
		}
		return rel != "." && matcher.SkipDir(filepath.ToSlash(rel))
	}
	log.Info().Str("base", result.BaseDir).Int("dirs", len(dirs)).Msg("watching for changes")

	err = w.Run(ctx, func(ctx context.Context, changed []string) error {
		log.Info().Strs("changed", changed).Msg("regenerating")
		result, err := Generate(ctx, opts.GenerateOptions)
		report(result, err)
		return err
	})
	if err != nil {
		return NewWatchError("watch stopped", err)
	}
	return nil
}

// watchDirs returns base and every directory under it that discovery would
// descend into.
func watchDirs(base string, matcher *provider.Matcher) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		if rel != "." && matcher.SkipDir(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}
