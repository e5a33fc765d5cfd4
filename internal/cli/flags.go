package cli

import "github.com/tacogips/pipelinedoc/internal/config"

// Common flag names and descriptions
const (
	// Flag names
	FlagConfig          = "config"
	FlagNoColor         = "no-color"
	FlagQuiet           = "quiet"
	FlagDebug           = "debug"
	FlagLogFormat       = "log-format"
	FlagDir             = "dir"
	FlagOutDir          = "out-dir"
	FlagRepoIdentifier  = "repo-identifier"
	FlagRepoName        = "repo-name"
	FlagRepoType        = "repo-type"
	FlagRepoRef         = "repo-ref"
	FlagHeadingDepth    = "heading-depth"
	FlagStrict          = "strict"
	FlagDryRun          = "dry-run"
	FlagFrontMatter     = "front-matter"
	FlagNoIndex         = "no-index"
	FlagConcurrency     = "concurrency"
	FlagMetricsTextfile = "metrics-textfile"
	FlagDebounce        = "debounce"
	FlagForce           = "force"
	FlagYes             = "yes"

	// Flag descriptions
	DescConfig          = "Path to config file (default: .pipelinedoc.yaml)"
	DescNoColor         = "Disable colored output"
	DescQuiet           = "Suppress non-error output"
	DescDebug           = "Enable debug logging"
	DescLogFormat       = "Log format (console or json)"
	DescDir             = "Directory templates are discovered under"
	DescOutDir          = "Output directory"
	DescRepoIdentifier  = "Repository resource alias used in usage examples"
	DescRepoName        = "Repository name (detected from the git remote when unset)"
	DescRepoType        = "Repository type (git, github or bitbucket)"
	DescRepoRef         = "Git ref consumers should pin"
	DescHeadingDepth    = "Heading level of each document title"
	DescStrict          = "Fail when any properties warning is raised"
	DescDryRun          = "Show actions without execution"
	DescFrontMatter     = "Prefix documents with YAML front matter"
	DescNoIndex         = "Do not write index.md"
	DescConcurrency     = "Number of templates documented in parallel"
	DescMetricsTextfile = "Write run metrics to this node exporter textfile"
	DescDebounce        = "Time to wait for further changes before regenerating"
	DescForce           = "Overwrite an existing properties file"
	DescYes             = "Accept every default without prompting"
)

// flagBinding ties a command flag to the configuration key it overrides.
type flagBinding struct {
	flag string
	key  string
}

// generateBindings are the flags shared by generate and watch.
var generateBindings = []flagBinding{
	{FlagOutDir, config.KeyOutputDir},
	{FlagRepoIdentifier, config.KeyRepoIdentifier},
	{FlagRepoName, config.KeyRepoName},
	{FlagRepoType, config.KeyRepoType},
	{FlagRepoRef, config.KeyRepoRef},
	{FlagHeadingDepth, config.KeyOutputHeadingDepth},
	{FlagStrict, config.KeyValidationStrict},
	{FlagFrontMatter, config.KeyOutputFrontMatter},
	{FlagConcurrency, config.KeyTemplatesConc},
	{FlagMetricsTextfile, config.KeyMetricsTextfile},
}
