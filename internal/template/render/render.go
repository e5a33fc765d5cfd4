// Package render turns a normalized pipeline template and its metadata into
// Markdown reference documentation.
//
// Rendering is a pure function of its inputs: no I/O, no clock, no shared
// state. It is safe to call from many goroutines at once.
package render

import (
	"strings"
	"unicode"

	"github.com/tacogips/pipelinedoc/internal/template/model"
	"github.com/tacogips/pipelinedoc/internal/template/parser"
)

// Options controls document formatting.
type Options struct {
	// HeadingDepth is the level of the document heading. Subsections render
	// one level deeper. Values below 1 are treated as 1.
	HeadingDepth int
}

// DefaultOptions returns the default formatting options.
func DefaultOptions() Options {
	return Options{HeadingDepth: 1}
}

func (o Options) depth() int {
	if o.HeadingDepth < 1 {
		return 1
	}
	return o.HeadingDepth
}

// Generate parses template text and renders its documentation.
//
// The only error is a *parser.ParseError for text that is not valid YAML;
// no partial output is produced in that case.
func Generate(data []byte, meta model.Metadata, opts Options) (string, error) {
	doc, err := parser.Parse(data)
	if err != nil {
		return "", err
	}
	return Render(parser.Normalize(doc, meta), meta, opts), nil
}

// Render renders a normalized template. Sections whose inputs are missing are
// omitted. The result ends with exactly one newline.
func Render(tmpl *model.NormalizedTemplate, meta model.Metadata, opts Options) string {
	if tmpl == nil {
		tmpl = &model.NormalizedTemplate{}
	}
	depth := opts.depth()

	var sections []string
	sections = append(sections, headingSection(meta, depth)...)
	sections = append(sections, deprecationSection(meta)...)
	sections = append(sections, kindSection(tmpl.Kind)...)
	sections = append(sections, descriptionSection(meta)...)
	sections = append(sections, usageSection(tmpl, meta, depth)...)
	sections = append(sections, parametersSection(tmpl.Parameters, depth)...)
	sections = append(sections, examplesSection(meta.Examples, depth)...)

	return strings.TrimRightFunc(strings.Join(sections, "\n\n"), unicode.IsSpace) + "\n"
}
