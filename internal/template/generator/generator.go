package generator

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tacogips/pipelinedoc/internal/config"
	"github.com/tacogips/pipelinedoc/internal/logging"
	"github.com/tacogips/pipelinedoc/internal/template/model"
)

// Generator documents batches of templates.
type Generator interface {
	// Generate documents every template and writes the documents under the
	// output directory. A template that fails is recorded in the result and
	// does not stop the others.
	Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error)

	// DryRun documents every template without writing anything.
	DryRun(ctx context.Context, opts GenerateOptions) (*GenerateResult, error)
}

// GenerateOptions configures a batch.
type GenerateOptions struct {
	// Templates are the templates to document.
	Templates []model.TemplateFile

	// OutputDir is the directory where documents are written.
	OutputDir string

	// Concurrency limits how many templates are processed at once.
	// Values below 1 mean runtime.NumCPU().
	Concurrency int

	// Process configures rendering.
	Process ProcessOptions
}

// DryRunFile contains information about a document that would be written in dry-run mode.
type DryRunFile struct {
	// Path is the output file path.
	Path string
	// Content is the rendered document.
	Content []byte
	// Exists indicates if the file already exists and would be overwritten.
	Exists bool
}

// GenerateResult contains generation statistics.
type GenerateResult struct {
	// FilesCreated is the number of new documents written.
	FilesCreated int

	// FilesOverwritten is the number of existing documents replaced.
	FilesOverwritten int

	// Documents are the documents generated, in template order.
	Documents []*Document

	// Errors are the per-template failures (*DocumentError), in template order.
	Errors []error

	// Warnings are the validation warnings of all documents, in template order.
	Warnings []config.Warning

	// Files contains the output paths of all documents.
	Files []string

	// DryRunFiles contains detailed information for dry-run mode (only populated in dry-run).
	DryRunFiles []DryRunFile
}

// DefaultGenerator implements Generator.
type DefaultGenerator struct {
	writer       Writer
	newProcessor func(ProcessOptions) Processor
}

// NewGenerator creates a new DefaultGenerator writing to the filesystem.
func NewGenerator() Generator {
	return &DefaultGenerator{
		writer:       NewFileWriter(),
		newProcessor: NewFileProcessor,
	}
}

// Generate documents the templates and writes the documents.
func (g *DefaultGenerator) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	return g.generate(ctx, opts, false)
}

// DryRun documents the templates without writing files.
func (g *DefaultGenerator) DryRun(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	return g.generate(ctx, opts, true)
}

// outcome is the result slot of one template.
type outcome struct {
	doc     *Document
	path    string
	exists  bool
	err     error
	written bool
}

// generate is the internal implementation for both Generate and DryRun.
func (g *DefaultGenerator) generate(ctx context.Context, opts GenerateOptions, dryRun bool) (*GenerateResult, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	log := logging.Component("generator")

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	log.Debug().
		Int("templates", len(opts.Templates)).
		Str("output", opts.OutputDir).
		Int("concurrency", concurrency).
		Bool("dry_run", dryRun).
		Msg("starting generation")

	if !dryRun && !g.writer.Exists(opts.OutputDir) {
		if err := g.writer.CreateDir(opts.OutputDir); err != nil {
			return nil, err
		}
	}

	processor := g.newProcessor(opts.Process)
	outcomes := make([]outcome, len(opts.Templates))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i, file := range opts.Templates {
		eg.Go(func() error {
			out := &outcomes[i]

			doc, err := processor.Process(egCtx, file)
			if err != nil {
				if ctxErr := egCtx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
					return err
				}
				log.Debug().Err(err).Str("template", file.Path).Msg("template failed")
				out.err = err
				return nil
			}
			out.doc = doc

			target, err := OutputPath(opts.OutputDir, doc.OutputPath)
			if err != nil {
				out.err = &DocumentError{File: file.Path, Kind: doc.Kind, Cause: err}
				return nil
			}
			out.path = target
			out.exists = g.writer.Exists(target)

			if dryRun {
				return nil
			}
			if err := g.writer.WriteFile(target, []byte(doc.Content), DocumentMode); err != nil {
				out.err = &DocumentError{File: file.Path, Kind: doc.Kind, Cause: err}
				return nil
			}
			out.written = true
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Documents:   []*Document{},
		Errors:      []error{},
		Warnings:    []config.Warning{},
		Files:       []string{},
		DryRunFiles: []DryRunFile{},
	}
	for _, out := range outcomes {
		if out.doc != nil {
			result.Warnings = append(result.Warnings, out.doc.Warnings...)
		}
		if out.err != nil {
			result.Errors = append(result.Errors, out.err)
			continue
		}

		result.Documents = append(result.Documents, out.doc)
		result.Files = append(result.Files, out.path)

		if dryRun {
			result.DryRunFiles = append(result.DryRunFiles, DryRunFile{
				Path:    out.path,
				Content: []byte(out.doc.Content),
				Exists:  out.exists,
			})
			continue
		}
		if out.exists {
			result.FilesOverwritten++
		} else {
			result.FilesCreated++
		}
	}

	log.Debug().
		Int("created", result.FilesCreated).
		Int("overwritten", result.FilesOverwritten).
		Int("errors", len(result.Errors)).
		Int("warnings", len(result.Warnings)).
		Msg("generation complete")

	return result, nil
}

// validateOptions validates GenerateOptions.
func validateOptions(opts GenerateOptions) error {
	if opts.OutputDir == "" {
		return newGeneratorError(GeneratorPathError, "output directory cannot be empty", "", nil)
	}
	return nil
}
