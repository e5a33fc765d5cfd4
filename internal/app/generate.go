package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/tacogips/pipelinedoc/internal/config"
	"github.com/tacogips/pipelinedoc/internal/logging"
	"github.com/tacogips/pipelinedoc/internal/metrics"
	"github.com/tacogips/pipelinedoc/internal/repo"
	"github.com/tacogips/pipelinedoc/internal/site"
	"github.com/tacogips/pipelinedoc/internal/template/generator"
	"github.com/tacogips/pipelinedoc/internal/template/model"
	"github.com/tacogips/pipelinedoc/internal/template/provider"
)

// GenerateOptions holds options for a documentation run.
type GenerateOptions struct {
	// Config is the tool configuration. Nil means config.DefaultConfig().
	Config *config.Config
	// BaseDir is the directory templates are discovered under and the
	// directory document paths are relative to. Empty means the current
	// working directory.
	BaseDir string
	// Patterns select templates. Empty means Config.Templates.Patterns.
	Patterns []string
	// DryRun renders every document without writing anything.
	DryRun bool
}

// GenerateResult holds the result of a documentation run.
type GenerateResult struct {
	// BaseDir is the absolute discovery directory.
	BaseDir string
	// OutputDir is the absolute output directory.
	OutputDir string
	// Templates are the discovered templates in path order.
	Templates []model.TemplateFile
	// Repo is the repository metadata attached to usage examples, if any.
	Repo *model.RepoMetadata
	// Generation holds the per-document results.
	Generation *generator.GenerateResult
	// IndexFile is the index page path, or "" when no index was produced.
	IndexFile string
	// IndexContent is the rendered index page.
	IndexContent string
	// Strict reports whether warnings count as failures.
	Strict bool
	// Metrics holds the run metrics.
	Metrics *metrics.Recorder
	// Duration is how long the run took.
	Duration time.Duration
}

// Warnings returns the validation warnings of the run.
func (r *GenerateResult) Warnings() []config.Warning {
	if r.Generation == nil {
		return nil
	}
	return r.Generation.Warnings
}

// Errors returns the per-document failures of the run.
func (r *GenerateResult) Errors() []error {
	if r.Generation == nil {
		return nil
	}
	return r.Generation.Errors
}

// Failed reports whether any document failed, or any warning was raised in
// strict mode.
func (r *GenerateResult) Failed() bool {
	if len(r.Errors()) > 0 {
		return true
	}
	return r.Strict && len(r.Warnings()) > 0
}

// Generate discovers templates and writes one Markdown document per
// template, plus an index page when configured. Per-document failures are
// reported in the result and do not abort the run.
func Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	log := logging.Component("app")
	start := time.Now()

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := config.Validate(cfg, ""); err != nil {
		return nil, NewConfigLoadError("invalid configuration", err)
	}

	baseDir, err := absDir(opts.BaseDir)
	if err != nil {
		return nil, NewGenerateError("failed to resolve template directory", err)
	}
	outputDir, err := filepath.Abs(cfg.Output.Dir)
	if err != nil {
		return nil, NewGenerateError("failed to resolve output directory", err)
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = cfg.Templates.Patterns
	}

	log.Debug().
		Str("base", baseDir).
		Str("output", outputDir).
		Strs("patterns", patterns).
		Bool("dry_run", opts.DryRun).
		Msg("generate workflow start")

	templates, err := provider.NewLocalProviderWithBase(baseDir, cfg.Templates.Ignore).Discover(ctx, patterns)
	if err != nil {
		return nil, NewGenerateError("failed to discover templates", err)
	}
	templates = withoutFile(templates, cfg.File)
	log.Debug().Int("templates", len(templates)).Msg("templates discovered")

	result := &GenerateResult{
		BaseDir:   baseDir,
		OutputDir: outputDir,
		Templates: templates,
		Repo:      repo.Resolve(baseDir, cfg.Repo),
		Strict:    cfg.Validation.Strict,
		Metrics:   metrics.NewRecorder(),
	}

	genOpts := generator.GenerateOptions{
		Templates:   templates,
		OutputDir:   outputDir,
		Concurrency: cfg.Templates.Concurrency,
		Process: generator.ProcessOptions{
			HeadingDepth: cfg.Output.HeadingDepth,
			Repo:         result.Repo,
			FrontMatter:  cfg.Output.FrontMatter,
			Layout:       cfg.Output.Layout,
		},
	}

	gen := generator.NewGenerator()
	if opts.DryRun {
		result.Generation, err = gen.DryRun(ctx, genOpts)
	} else {
		result.Generation, err = gen.Generate(ctx, genOpts)
	}
	if err != nil {
		return nil, NewGenerateError("failed to generate documents", err)
	}

	if cfg.Output.Index && len(templates) > 0 {
		if err := writeIndex(cfg.Output, outputDir, result, opts.DryRun); err != nil {
			return nil, err
		}
	}

	result.Duration = time.Since(start)
	recordMetrics(result)
	if cfg.Metrics.Textfile != "" && !opts.DryRun {
		if err := result.Metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return nil, NewGenerateError("failed to export metrics", err)
		}
	}

	log.Debug().
		Int("documents", len(result.Generation.Documents)).
		Int("errors", len(result.Errors())).
		Int("warnings", len(result.Warnings())).
		Dur("duration", result.Duration).
		Msg("generate workflow complete")

	return result, nil
}

// writeIndex renders the index page over the generated documents and writes
// it, or records it as a dry-run file.
func writeIndex(out config.OutputConfig, outputDir string, result *GenerateResult, dryRun bool) error {
	entries := make([]site.Entry, 0, len(result.Generation.Documents))
	for _, doc := range result.Generation.Documents {
		entries = append(entries, site.Entry{
			Path:     doc.Template.Path,
			Href:     doc.OutputPath,
			Category: doc.Metadata.Category,
		})
	}

	content, err := site.RenderIndex(out.IndexTitle, entries)
	if err != nil {
		return NewGenerateError("failed to render index", err)
	}
	if out.FrontMatter {
		title := out.IndexTitle
		if title == "" {
			title = site.DefaultIndexTitle
		}
		content, err = site.NewFrontMatter(title, out.Layout).Wrap(content)
		if err != nil {
			return NewGenerateError("failed to render index front matter", err)
		}
	}

	path := filepath.Join(outputDir, model.IndexFile)
	writer := generator.NewFileWriter()
	result.IndexFile = path
	result.IndexContent = content

	if dryRun {
		result.Generation.DryRunFiles = append(result.Generation.DryRunFiles, generator.DryRunFile{
			Path:    path,
			Content: []byte(content),
			Exists:  writer.Exists(path),
		})
		return nil
	}

	if err := writer.WriteFile(path, []byte(content), generator.DocumentMode); err != nil {
		return NewGenerateError(fmt.Sprintf("failed to write %s", model.IndexFile), err)
	}
	return nil
}

func recordMetrics(result *GenerateResult) {
	rec := result.Metrics
	for _, doc := range result.Generation.Documents {
		rec.DocumentGenerated(doc.Kind)
	}
	for _, err := range result.Generation.Errors {
		kind := model.KindNone
		var docErr *generator.DocumentError
		if errors.As(err, &docErr) {
			kind = docErr.Kind
		}
		rec.DocumentFailed(kind)
	}
	rec.Warnings(len(result.Generation.Warnings))
	rec.RunCompleted(result.Duration, result.Failed(), time.Now())
}

// withoutFile drops the template at the absolute path file, used to keep the
// configuration file out of the documents.
func withoutFile(templates []model.TemplateFile, file string) []model.TemplateFile {
	if file == "" {
		return templates
	}
	file = filepath.Clean(file)
	return slices.DeleteFunc(templates, func(t model.TemplateFile) bool {
		return filepath.Clean(t.AbsPath) == file
	})
}

// absDir resolves dir against the working directory.
func absDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	return filepath.Abs(dir)
}
