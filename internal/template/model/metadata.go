package model

import "gopkg.in/yaml.v3"

// RepoType is the Azure Pipelines repository resource type.
type RepoType string

const (
	RepoTypeGit       RepoType = "git"
	RepoTypeGitHub    RepoType = "github"
	RepoTypeBitbucket RepoType = "bitbucket"
)

// Valid reports whether t is one of the known repository types.
func (t RepoType) Valid() bool {
	switch t {
	case RepoTypeGit, RepoTypeGitHub, RepoTypeBitbucket:
		return true
	}
	return false
}

// UsageStyle selects how the usage example references the template.
type UsageStyle string

const (
	// UsageInsert inserts the template into a steps/jobs/stages/variables list.
	UsageInsert UsageStyle = "insert"
	// UsageExtend references the template from a top-level extends block.
	UsageExtend UsageStyle = "extend"
)

// RepoMetadata describes the repository that hosts the templates.
type RepoMetadata struct {
	// Identifier is the alias consumers give the repository resource.
	Identifier string `yaml:"identifier" json:"identifier"`
	// Name is the repository name, e.g. "Project/Repo" or "owner/repo".
	Name     string   `yaml:"name" json:"name"`
	Type     RepoType `yaml:"type,omitempty" json:"type,omitempty"`
	Ref      string   `yaml:"ref,omitempty" json:"ref,omitempty"`
	Endpoint string   `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
}

// ParameterMetadata is human-authored documentation for one parameter.
type ParameterMetadata struct {
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Format      string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Example is a documented usage example from a properties file.
type Example struct {
	Title       string
	Description string
	// Example is the raw YAML value rendered as a code block.
	Example *yaml.Node
}

// Metadata is everything the renderer knows about a template besides its
// YAML source. Only Name is required.
type Metadata struct {
	Name        string
	Description string
	// Version is kept as text; an empty string means unset, so "0" still renders.
	Version           string
	Category          string
	Deprecated        bool
	DeprecatedWarning string
	// FilePath is the template path used in usage examples.
	FilePath   string
	Repo       *RepoMetadata
	Parameters map[string]ParameterMetadata
	Examples   []Example
	UsageStyle UsageStyle
}

// IsDeprecated reports whether the deprecation notice should be shown.
func (m Metadata) IsDeprecated() bool {
	return m.Deprecated || m.DeprecatedWarning != ""
}
