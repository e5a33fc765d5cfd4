package provider

import (
	"path"
	"strings"

	"github.com/gobwas/glob"

	"github.com/tacogips/pipelinedoc/internal/template/model"
)

// Matcher decides which slash-separated relative paths are templates to document.
type Matcher struct {
	include []glob.Glob
	ignore  []glob.Glob
}

// NewMatcher compiles include and ignore patterns. Patterns are relative and
// slash-separated; "*" stays within one path segment and "**" spans any
// number of segments, including none.
func NewMatcher(patterns, ignore []string) (*Matcher, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	include, err := compile(patterns)
	if err != nil {
		return nil, err
	}
	skip, err := compile(ignore)
	if err != nil {
		return nil, err
	}
	return &Matcher{include: include, ignore: skip}, nil
}

// Match reports whether rel is an included template path that is not ignored.
// Properties sidecars never match.
func (m *Matcher) Match(rel string) bool {
	if !model.IsTemplatePath(rel) || m.Ignored(rel) {
		return false
	}
	return matchAny(m.include, rel)
}

// Ignored reports whether rel matches an ignore pattern.
func (m *Matcher) Ignored(rel string) bool {
	return matchAny(m.ignore, rel)
}

// SkipDir reports whether the directory rel and everything below it is ignored.
func (m *Matcher) SkipDir(rel string) bool {
	return matchAny(m.ignore, rel+"/")
}

func matchAny(globs []glob.Glob, rel string) bool {
	for _, g := range globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func compile(patterns []string) ([]glob.Glob, error) {
	var globs []glob.Glob
	for _, raw := range patterns {
		pattern, err := normalizePattern(raw)
		if err != nil {
			return nil, err
		}
		for _, variant := range expandDoubleStar(pattern) {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, NewInvalidPatternError(localProviderName, raw, "failed to compile pattern", err)
			}
			globs = append(globs, g)
		}
	}
	return globs, nil
}

// normalizePattern converts a pattern to the relative slash form paths are
// matched in.
func normalizePattern(raw string) (string, error) {
	pattern := strings.TrimSpace(strings.ReplaceAll(raw, `\`, "/"))
	if pattern == "" {
		return "", NewInvalidPatternError(localProviderName, raw, "empty pattern", nil)
	}
	for strings.HasPrefix(pattern, "./") {
		pattern = pattern[2:]
	}
	if strings.HasPrefix(pattern, "/") {
		return "", NewInvalidPatternError(localProviderName, raw, "pattern must be relative to the base directory", nil)
	}

	cleaned := path.Clean(pattern)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", NewInvalidPatternError(localProviderName, raw, "pattern escapes base directory", nil)
	}
	if strings.HasSuffix(pattern, "/") {
		cleaned += "/"
	}
	return cleaned, nil
}

// expandDoubleStar returns pattern plus every variant with one or more
// "**/" segments removed, so "**/*.yml" also matches "build.yml".
func expandDoubleStar(pattern string) []string {
	out := []string{pattern}
	seen := map[string]bool{pattern: true}
	for i := 0; i < len(out); i++ {
		s := out[i]
		for j := 0; j+3 <= len(s); j++ {
			if s[j:j+3] != "**/" || (j > 0 && s[j-1] != '/') {
				continue
			}
			v := s[:j] + s[j+3:]
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
