package generator

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"

	"github.com/tacogips/pipelinedoc/internal/config"
	"github.com/tacogips/pipelinedoc/internal/logging"
	"github.com/tacogips/pipelinedoc/internal/site"
	"github.com/tacogips/pipelinedoc/internal/template/model"
	"github.com/tacogips/pipelinedoc/internal/template/parser"
	"github.com/tacogips/pipelinedoc/internal/template/render"
)

// Document is the documentation generated for one template.
type Document struct {
	// Template is the source template.
	Template model.TemplateFile
	// PropertiesFile is the slash-separated properties file path, or "" when
	// the template has none.
	PropertiesFile string
	// Metadata is the merged metadata the document was rendered with.
	Metadata model.Metadata
	// Kind is the template kind.
	Kind model.Kind
	// OutputPath is the slash-separated document path relative to the output dir.
	OutputPath string
	// Content is the rendered Markdown.
	Content string
	// Warnings are the properties validation findings.
	Warnings []config.Warning
}

// ProcessOptions configures how each template is documented.
type ProcessOptions struct {
	// HeadingDepth is the level of the document heading.
	HeadingDepth int
	// Repo is attached to every document's metadata. Nil omits repository
	// references from usage examples.
	Repo *model.RepoMetadata
	// FrontMatter prepends YAML front matter to every document.
	FrontMatter bool
	// Layout is the front matter layout.
	Layout string
}

// Processor documents individual templates.
type Processor interface {
	// Process reads, validates and renders a single template. Failures are
	// returned as *DocumentError.
	Process(ctx context.Context, file model.TemplateFile) (*Document, error)
}

// FileProcessor implements Processor for templates on disk.
type FileProcessor struct {
	opts ProcessOptions
}

// NewFileProcessor creates a new FileProcessor.
func NewFileProcessor(opts ProcessOptions) Processor {
	return &FileProcessor{opts: opts}
}

// Process documents a single template.
func (p *FileProcessor) Process(ctx context.Context, file model.TemplateFile) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logging.Component("generator")

	source := file.AbsPath
	if source == "" {
		source = filepath.FromSlash(file.Path)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, &DocumentError{
			File:  file.Path,
			Cause: newGeneratorError(GeneratorProcessFailed, "failed to read template", source, err),
		}
	}

	doc, err := parser.Parse(data)
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			err = parseErr.WithFile(file.Path)
		}
		return nil, &DocumentError{File: file.Path, Cause: err}
	}

	result := &Document{
		Template:   file,
		OutputPath: file.DocPath(),
	}

	meta := model.Metadata{}
	if propsPath, found := config.FindPropertiesFile(source); found {
		props, err := config.LoadProperties(propsPath)
		if err != nil {
			return nil, &DocumentError{File: file.Path, Kind: parser.TemplateKind(doc), Cause: err}
		}
		// Warnings name files the way the user addressed them.
		props.Path = siblingPath(file.Path, propsPath)
		result.PropertiesFile = props.Path

		result.Warnings = append(result.Warnings, config.ValidateProperties(props)...)
		result.Warnings = append(result.Warnings,
			config.ValidateParameters(props, file.Path, parser.ParameterList(doc.Parameters))...)
		meta = props.Metadata()
	} else {
		result.Warnings = append(result.Warnings, config.MissingPropertiesWarning(file.Path))
	}

	if meta.Name == "" {
		meta.Name = file.BaseName()
	}
	if meta.Description == "" {
		meta.Description = parser.LeadingComment(data)
	}
	meta.FilePath = file.Path
	meta.Repo = p.opts.Repo

	tmpl := parser.Normalize(doc, meta)
	content := render.Render(tmpl, meta, render.Options{HeadingDepth: p.opts.HeadingDepth})

	if p.opts.FrontMatter {
		content, err = site.NewFrontMatter(meta.Name, p.opts.Layout).Wrap(content)
		if err != nil {
			return nil, &DocumentError{
				File:  file.Path,
				Kind:  tmpl.Kind,
				Cause: newGeneratorError(GeneratorProcessFailed, "failed to add front matter", file.Path, err),
			}
		}
	}

	result.Metadata = meta
	result.Kind = tmpl.Kind
	result.Content = content

	log.Debug().
		Str("template", file.Path).
		Str("kind", tmpl.Kind.String()).
		Int("parameters", len(tmpl.Parameters)).
		Int("warnings", len(result.Warnings)).
		Msg("template documented")

	return result, nil
}

// siblingPath returns the slash path of a file next to the template.
func siblingPath(templatePath, sibling string) string {
	dir := path.Dir(templatePath)
	name := filepath.Base(sibling)
	if dir == "." {
		return name
	}
	return dir + "/" + name
}
