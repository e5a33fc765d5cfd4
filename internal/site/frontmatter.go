// Package site prepares generated documents for a static site generator:
// YAML front matter on every document and an index page.
package site

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tacogips/pipelinedoc/internal/build"
)

const frontMatterDelimiter = "---\n"

// FrontMatter is the YAML header prepended to a document.
type FrontMatter struct {
	Title     string    `yaml:"title"`
	Layout    string    `yaml:"layout,omitempty"`
	Generator Generator `yaml:"generator"`
}

// Generator identifies the tool that produced a document.
type Generator struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// NewFrontMatter returns front matter for a document titled title.
func NewFrontMatter(title, layout string) FrontMatter {
	return FrontMatter{
		Title:  title,
		Layout: layout,
		Generator: Generator{
			Name:    build.Name,
			Version: build.Version(),
		},
	}
}

// Render returns the front matter block including its delimiters.
func (f FrontMatter) Render() (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}
	return frontMatterDelimiter + buf.String() + frontMatterDelimiter, nil
}

// Wrap prepends the front matter to document.
func (f FrontMatter) Wrap(document string) (string, error) {
	header, err := f.Render()
	if err != nil {
		return "", err
	}
	return header + "\n" + document, nil
}
