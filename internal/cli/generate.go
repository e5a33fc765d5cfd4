package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tacogips/pipelinedoc/internal/app"
	"github.com/tacogips/pipelinedoc/internal/config"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [patterns...]",
	Short: "Generate Markdown documentation for pipeline templates",
	Long: `Discover pipeline templates and write one Markdown document per template.

Patterns are globs relative to --dir ("**" matches any number of
directories). Without patterns, templates.patterns from the configuration
is used (default: **/*.yml and **/*.yaml). Properties files are never
documented themselves.

Documents are written to <out-dir>/<template path>.md together with an
index.md listing every document. A template that cannot be documented is
reported and the others are still written; the command then exits with
status 1. With --strict, properties warnings fail the run as well.

Examples:
  pipelinedoc generate
  pipelinedoc generate "templates/**/*.yml" -o site/docs
  pipelinedoc generate --repo-ref refs/tags/v2 --strict
  pipelinedoc generate --dry-run`,
	RunE: runGenerate,
}

// Generate command flags
var (
	generateDir    string
	generateDryRun bool
	generateNoIdx  bool
)

func init() {
	addGenerateFlags(generateCmd, &generateDir, &generateNoIdx)
	generateCmd.Flags().BoolVar(&generateDryRun, FlagDryRun, false, DescDryRun)
}

// addGenerateFlags defines the flags shared by generate and watch. Values
// bound to configuration keys are read back through the loader, so only
// dir and no-index need variables.
func addGenerateFlags(cmd *cobra.Command, dir *string, noIndex *bool) {
	d := config.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVarP(dir, FlagDir, "C", ".", DescDir)
	flags.StringP(FlagOutDir, "o", d.Output.Dir, DescOutDir)
	flags.String(FlagRepoIdentifier, d.Repo.Identifier, DescRepoIdentifier)
	flags.String(FlagRepoName, "", DescRepoName)
	flags.String(FlagRepoType, "", DescRepoType)
	flags.String(FlagRepoRef, "", DescRepoRef)
	flags.Int(FlagHeadingDepth, d.Output.HeadingDepth, DescHeadingDepth)
	flags.Bool(FlagStrict, false, DescStrict)
	flags.Bool(FlagFrontMatter, false, DescFrontMatter)
	flags.BoolVar(noIndex, FlagNoIndex, false, DescNoIndex)
	flags.Int(FlagConcurrency, d.Templates.Concurrency, DescConcurrency)
	flags.String(FlagMetricsTextfile, "", DescMetricsTextfile)
}

// loadGenerateConfig loads the configuration with the generate flags applied.
func loadGenerateConfig(cmd *cobra.Command, noIndex bool, extra ...flagBinding) (*config.Config, error) {
	cfg, err := loadConfig(cmd, slices.Concat(generateBindings, extra))
	if err != nil {
		return nil, err
	}
	if noIndex {
		cfg.Output.Index = false
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadGenerateConfig(cmd, generateNoIdx)
	if err != nil {
		return err
	}

	result, err := app.Generate(cmd.Context(), app.GenerateOptions{
		Config:   cfg,
		BaseDir:  generateDir,
		Patterns: args,
		DryRun:   generateDryRun,
	})
	if err != nil {
		return err
	}

	return reportGenerate(result, generateDryRun)
}

// reportGenerate prints the outcome of a run and returns an error when the
// run failed.
func reportGenerate(result *app.GenerateResult, dryRun bool) error {
	for _, w := range result.Warnings() {
		printWarning(w.Message)
	}
	for _, err := range result.Errors() {
		printErrorMsg(err.Error())
	}

	if len(result.Templates) == 0 {
		printWarning(fmt.Sprintf("No templates found under %s", result.BaseDir))
		return nil
	}

	gen := result.Generation
	if dryRun {
		printHeader("Dry run")
		for _, f := range gen.DryRunFiles {
			action := "create"
			if f.Exists {
				action = "overwrite"
			}
			printInfo(fmt.Sprintf("Would %s: %s (%d bytes)", action, displayPath(f.Path), len(f.Content)))
		}
	} else {
		for _, f := range gen.Files {
			printMuted(displayPath(f))
		}
		if result.IndexFile != "" {
			printMuted(displayPath(result.IndexFile))
		}
	}

	if !dryRun && len(gen.Documents) > 0 {
		printSuccess(fmt.Sprintf("Documented %d of %d templates in %s (%d created, %d overwritten)",
			len(gen.Documents), len(result.Templates), displayPath(result.OutputDir),
			gen.FilesCreated, gen.FilesOverwritten))
	}

	if n := len(result.Errors()); n > 0 {
		return fmt.Errorf("%d of %d templates could not be documented", n, len(result.Templates))
	}
	if result.Failed() {
		return fmt.Errorf("strict mode: %d properties warnings", len(result.Warnings()))
	}
	return nil
}

// displayPath shortens path relative to the working directory when it lies
// beneath it.
func displayPath(path string) string {
	wd, err := filepath.Abs(".")
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
