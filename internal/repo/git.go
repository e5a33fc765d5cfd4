// Package repo derives the repository resource consumers use to reference
// the documented templates.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultRemote is preferred over other remotes when present.
const DefaultRemote = "origin"

var (
	// ErrNotRepository is returned when no .git entry exists above a directory.
	ErrNotRepository = errors.New("not a git repository")
	// ErrNoRemote is returned when the git config declares no remote with a URL.
	ErrNoRemote = errors.New("no git remote configured")
)

// Remote is a git remote declared in a git config file.
type Remote struct {
	Name string
	URL  string
}

// FindGitDir returns the git directory of the repository containing dir.
// A .git file pointing elsewhere (worktrees, submodules) is followed.
func FindGitDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(abs, ".git")
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return candidate, nil
			}
			return readGitFile(candidate)
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("%s: %w", dir, ErrNotRepository)
		}
		abs = parent
	}
}

// readGitFile resolves a "gitdir: <path>" file. Linked worktrees keep their
// config in the common dir.
func readGitFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(data))
	target, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return "", fmt.Errorf("%s: malformed git file", path)
	}
	gitDir := strings.TrimSpace(target)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(filepath.Dir(path), gitDir)
	}

	if common, err := os.ReadFile(filepath.Join(gitDir, "commondir")); err == nil {
		dir := strings.TrimSpace(string(common))
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(gitDir, dir)
		}
		return filepath.Clean(dir), nil
	}
	return filepath.Clean(gitDir), nil
}

// ReadRemotes returns the remotes declared in a git config file, in file order.
func ReadRemotes(configPath string) ([]Remote, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:          true,
		SkipUnrecognizableLines:   true,
		AllowShadows:              true,
		IgnoreContinuation:        true,
		UnescapeValueDoubleQuotes: true,
	}, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read git config %s: %w", configPath, err)
	}

	var remotes []Remote
	for _, section := range cfg.Sections() {
		name, ok := remoteName(section.Name())
		if !ok || !section.HasKey("url") {
			continue
		}
		remotes = append(remotes, Remote{Name: name, URL: section.Key("url").String()})
	}
	return remotes, nil
}

// remoteName extracts the remote name from a `remote "name"` section.
func remoteName(section string) (string, bool) {
	rest, ok := strings.CutPrefix(section, "remote ")
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", false
	}
	return rest[1 : len(rest)-1], true
}

// PreferredRemote returns the origin remote, or the first remote.
func PreferredRemote(remotes []Remote) (Remote, error) {
	if len(remotes) == 0 {
		return Remote{}, ErrNoRemote
	}
	for _, r := range remotes {
		if r.Name == DefaultRemote {
			return r, nil
		}
	}
	return remotes[0], nil
}

// RemoteURL returns the preferred remote URL of the repository containing dir.
func RemoteURL(dir string) (string, error) {
	gitDir, err := FindGitDir(dir)
	if err != nil {
		return "", err
	}
	remotes, err := ReadRemotes(filepath.Join(gitDir, "config"))
	if err != nil {
		return "", err
	}
	remote, err := PreferredRemote(remotes)
	if err != nil {
		return "", err
	}
	return remote.URL, nil
}
