package model

import (
	"path/filepath"
	"strings"
)

// TemplateFile is a template discovered on disk.
type TemplateFile struct {
	// Path is the slash-separated path relative to the discovery base dir.
	// It is what documents link to and what usage examples reference.
	Path string
	// AbsPath is the absolute filesystem path.
	AbsPath string
}

// BaseName returns the file name without directory and extension
// (templates/build.steps.yml -> build.steps).
func (f TemplateFile) BaseName() string {
	name := filepath.Base(f.Path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// DocPath returns the document path for the template relative to the output dir.
func (f TemplateFile) DocPath() string {
	return f.Path + DocExtension
}

// IsTemplatePath reports whether path looks like a template rather than a
// properties file or some other file.
func IsTemplatePath(path string) bool {
	ext := filepath.Ext(path)
	matched := false
	for _, e := range TemplateExtensions {
		if ext == e {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	return !strings.HasSuffix(strings.TrimSuffix(path, ext), PropertiesInfix)
}

// IsPropertiesPath reports whether path is a properties sidecar file.
func IsPropertiesPath(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range PropertiesExtensions {
		if ext == e {
			return strings.HasSuffix(strings.TrimSuffix(path, ext), PropertiesInfix)
		}
	}
	return false
}

// PropertiesCandidates returns the properties file paths to probe for a
// template, in lookup order.
func PropertiesCandidates(templatePath string) []string {
	base := strings.TrimSuffix(templatePath, filepath.Ext(templatePath))
	candidates := make([]string, 0, len(PropertiesExtensions))
	for _, ext := range PropertiesExtensions {
		candidates = append(candidates, base+PropertiesInfix+ext)
	}
	return candidates
}
