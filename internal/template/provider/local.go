package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tacogips/pipelinedoc/internal/logging"
	"github.com/tacogips/pipelinedoc/internal/template/model"
)

const localProviderName = "local"

// LocalProvider discovers templates on the local filesystem.
type LocalProvider struct {
	// BaseDir is the directory patterns are relative to.
	// Empty means the current working directory.
	BaseDir string
	// Ignore lists patterns whose matches are never documented.
	Ignore []string
}

// NewLocalProvider creates a new local provider rooted at the current directory.
func NewLocalProvider(ignore []string) *LocalProvider {
	return &LocalProvider{Ignore: ignore}
}

// NewLocalProviderWithBase creates a new local provider with a base directory.
func NewLocalProviderWithBase(baseDir string, ignore []string) *LocalProvider {
	return &LocalProvider{BaseDir: baseDir, Ignore: ignore}
}

// Name returns the provider name.
func (p *LocalProvider) Name() string {
	return localProviderName
}

// Matcher compiles patterns against the provider's base directory. Absolute
// patterns are converted to relative ones and must lie under the base.
func (p *LocalProvider) Matcher(patterns []string) (*Matcher, error) {
	base, err := p.baseDir()
	if err != nil {
		return nil, err
	}

	rel := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			rel = append(rel, pattern)
			continue
		}
		if !isSubPath(base, pattern) {
			return nil, NewInvalidPatternError(p.Name(), pattern, "pattern escapes base directory", nil)
		}
		r, err := filepath.Rel(base, filepath.Clean(pattern))
		if err != nil {
			return nil, NewInvalidPatternError(p.Name(), pattern, "failed to relativize pattern", err)
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	return NewMatcher(rel, p.Ignore)
}

// Discover walks the base directory and returns the templates matching
// patterns. Files matched by several patterns are returned once.
func (p *LocalProvider) Discover(ctx context.Context, patterns []string) ([]model.TemplateFile, error) {
	base, err := p.baseDir()
	if err != nil {
		return nil, err
	}
	log := logging.Component("provider")
	log.Debug().Str("base", base).Strs("patterns", patterns).Msg("discovering templates")

	info, err := os.Stat(base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewNotFoundError(p.Name(), base)
		}
		return nil, NewReadError(p.Name(), base, err)
	}
	if !info.IsDir() {
		return nil, NewReadError(p.Name(), base, errors.New("not a directory"))
	}

	matcher, err := p.Matcher(patterns)
	if err != nil {
		return nil, err
	}

	var files []model.TemplateFile
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			// Entries removed mid-walk and broken symlinks are skipped.
			if errors.Is(walkErr, fs.ErrNotExist) {
				log.Debug().Str("path", path).Msg("skipping vanished entry")
				return nil
			}
			return walkErr
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if matcher.SkipDir(rel) {
				log.Debug().Str("dir", rel).Msg("skipping ignored directory")
				return filepath.SkipDir
			}
			return nil
		}

		if !matcher.Match(rel) {
			return nil
		}
		if !isRegularFile(path, d) {
			log.Debug().Str("path", rel).Msg("skipping non-regular file")
			return nil
		}

		files = append(files, model.TemplateFile{Path: rel, AbsPath: path})
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, NewReadError(p.Name(), base, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	log.Debug().Int("count", len(files)).Msg("discovery completed")
	return files, nil
}

// baseDir returns the absolute base directory.
func (p *LocalProvider) baseDir() (string, error) {
	baseDir := p.BaseDir
	if baseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", NewReadError(p.Name(), ".", fmt.Errorf("failed to get current directory: %w", err))
		}
		baseDir = cwd
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", NewReadError(p.Name(), baseDir, err)
	}
	return abs, nil
}

// isRegularFile reports whether the entry is a regular file, following symlinks.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// isSubPath checks if child is under parent directory.
func isSubPath(parent, child string) bool {
	parent = filepath.Clean(parent)
	child = filepath.Clean(child)
	if !filepath.IsAbs(parent) || !filepath.IsAbs(child) {
		return false
	}

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
