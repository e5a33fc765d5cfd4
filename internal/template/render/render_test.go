package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tacogips/pipelinedoc/internal/template/model"
	"github.com/tacogips/pipelinedoc/internal/template/parser"
)

func generate(t *testing.T, src string, meta model.Metadata, opts Options) string {
	t.Helper()
	out, err := Generate([]byte(src), meta, opts)
	require.NoError(t, err)
	return out
}

func TestGenerate_Deploy(t *testing.T) {
	src := "parameters:\n  env: prod\njobs: []\n"
	meta := model.Metadata{Name: "Deploy", Version: "2", FilePath: "deploy.yml"}

	got := generate(t, src, meta, Options{HeadingDepth: 2})

	expected := strings.Join([]string{
		"## Deploy (v2)",
		"",
		"_Template type: `jobs`_",
		"",
		"### Example usage",
		"",
		"Insert template:",
		"",
		"```yaml",
		"jobs:",
		"  - template: deploy.yml",
		"    parameters:",
		"      env: string",
		"```",
		"",
		"### Parameters",
		"",
		"|Parameter|Type|Default|Description|",
		"|---|---|---|---|",
		"|`env`|`string`|`\"prod\"`||",
		"",
	}, "\n")

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
	assert.NotContains(t, got, "DEPRECATED")
}

func TestGenerate_Empty(t *testing.T) {
	got := generate(t, "{}", model.Metadata{Name: "Empty"}, DefaultOptions())
	assert.Equal(t, "# Empty\n", got)

	got = generate(t, "", model.Metadata{Name: "Empty", FilePath: "empty.yml"}, DefaultOptions())
	assert.Equal(t, "# Empty\n", got)
}

func TestGenerate_StepsWithRepository(t *testing.T) {
	src := `
parameters:
  - name: project
    displayName: Project
    type: string
  - name: configuration
    type: string
    default: Release
    values: [Debug, Release]
steps:
  - script: dotnet build
`
	meta := model.Metadata{
		Name:     "Build",
		FilePath: "templates/build.yml",
		Repo: &model.RepoMetadata{
			Identifier: "templates",
			Name:       "Project/pipelines",
			Type:       model.RepoTypeGit,
			Ref:        "refs/heads/main",
		},
		Parameters: map[string]model.ParameterMetadata{
			"project": {Description: "Project to build.\n\nRelative to the repo\nroot."},
		},
	}

	got := generate(t, src, meta, DefaultOptions())

	expected := strings.Join([]string{
		"# Build",
		"",
		"_Template type: `steps`_",
		"",
		"## Example usage",
		"",
		"Use template repository:",
		"",
		"```yaml",
		"resources:",
		"  repositories:",
		"    - repo: templates",
		"      name: Project/pipelines",
		"      ref: refs/heads/main",
		"      type: git",
		"```",
		"",
		"Insert template:",
		"",
		"```yaml",
		"jobs:",
		"  - job: my_job",
		"    steps:",
		"      - template: templates/build.yml@templates",
		"        parameters:",
		"          project: string",
		"          configuration: string",
		"```",
		"",
		"## Parameters",
		"",
		"|Parameter|Type|Default|Description|",
		"|---|---|---|---|",
		"|`project` (required)|`string`|N/A|Project<br/>Project to build.<br/><br/>Relative to the repo root.|",
		"|`configuration`|`string` (`\"Debug\"` \\| `\"Release\"`)|`\"Release\"`||",
		"",
	}, "\n")

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_Deprecation(t *testing.T) {
	tests := []struct {
		name     string
		meta     model.Metadata
		expected string
	}{
		{
			name:     "warning only",
			meta:     model.Metadata{Name: "Old", DeprecatedWarning: "Use v2"},
			expected: "**_⚠ DEPRECATED: Use v2 ⚠_**",
		},
		{
			name:     "flag only",
			meta:     model.Metadata{Name: "Old", Deprecated: true},
			expected: "**_⚠ DEPRECATED ⚠_**",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generate(t, "{}", tt.meta, DefaultOptions())
			assert.Equal(t, "# Old\n\n"+tt.expected+"\n", got)
		})
	}
}

func TestGenerate_VersionZero(t *testing.T) {
	got := generate(t, "{}", model.Metadata{Name: "Tool", Version: "0"}, DefaultOptions())
	assert.Equal(t, "# Tool (v0)\n", got)
}

func TestGenerate_Description(t *testing.T) {
	meta := model.Metadata{Name: "Vars", Description: "Shared variables.\n\nUse everywhere.  \n"}
	got := generate(t, "variables:\n  a: b\n", meta, DefaultOptions())
	assert.Equal(t, "# Vars\n\n_Template type: `variables`_\n\nShared variables.\n\nUse everywhere.\n", got)
}

func TestGenerate_UsageRequiresFilePathAndKind(t *testing.T) {
	noPath := generate(t, "stages: []\n", model.Metadata{Name: "S"}, DefaultOptions())
	assert.NotContains(t, noPath, "Example usage")

	noKind := generate(t, "parameters: {a: 1}\n", model.Metadata{Name: "S", FilePath: "s.yml"}, DefaultOptions())
	assert.NotContains(t, noKind, "Example usage")
	assert.Contains(t, noKind, "## Parameters")
}

func TestGenerate_UsageKinds(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{"stages: []", "stages:\n  - template: t.yml\n"},
		{"variables: {}", "variables:\n  - template: t.yml\n"},
		{"jobs: []", "jobs:\n  - template: t.yml\n"},
		{"steps: []\njobs: []", "jobs:\n  - job: my_job\n    steps:\n      - template: t.yml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := generate(t, tt.src, model.Metadata{Name: "T", FilePath: "t.yml"}, DefaultOptions())
			assert.Contains(t, got, "```yaml\n"+tt.expected+"```")
			assert.NotContains(t, got, "parameters:")
		})
	}
}

func TestGenerate_UsageExtend(t *testing.T) {
	meta := model.Metadata{
		Name:       "Pipeline",
		FilePath:   "pipeline.yml",
		UsageStyle: model.UsageExtend,
		Repo:       &model.RepoMetadata{Identifier: "templates", Name: "org/repo", Type: model.RepoTypeGitHub, Endpoint: "github-conn"},
	}
	got := generate(t, "parameters:\n  - name: stages\n    type: stageList\nstages: []\n", meta, DefaultOptions())

	assert.Contains(t, got, "      endpoint: github-conn\n")
	assert.NotContains(t, got, "ref:")
	assert.Contains(t, got, "Extend template:\n\n```yaml\nextends:\n  template: pipeline.yml@templates\n  parameters:\n    stages: stageList\n```")
	assert.NotContains(t, got, "Insert template:")
}

func TestGenerate_ParameterCells(t *testing.T) {
	src := `
parameters:
  - name: none
  - name: isFalse
    type: boolean
    default: false
  - name: isNull
    default: null
  - name: list
    type: object
    default: [1, "a"]
  - name: untyped
    default: {b: 1, a: 2}
  - displayName: Anonymous
steps: []
`
	meta := model.Metadata{
		Name: "Cells",
		Parameters: map[string]model.ParameterMetadata{
			"isFalse": {Format: "flag", Description: "Toggle"},
		},
	}

	got := generate(t, src, meta, DefaultOptions())

	for _, row := range []string{
		"|`none` (required)||N/A||",
		"|`isFalse`|`boolean` (`flag`)|`false`|Toggle|",
		"|`isNull`||`null`||",
		"|`list`|`object`|`[1,\"a\"]`||",
		"|`untyped`||`{\"b\":1,\"a\":2}`||",
		"| (required)||N/A|Anonymous|",
	} {
		assert.Contains(t, got, row)
	}
}

func TestGenerate_MappingOrder(t *testing.T) {
	got := generate(t, "parameters:\n  b: 1\n  a: 2\n", model.Metadata{Name: "Order"}, DefaultOptions())
	assert.Less(t, strings.Index(got, "|`b`|"), strings.Index(got, "|`a`|"))
}

func TestGenerate_Examples(t *testing.T) {
	var root yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("{steps: [{template: build.yml}]}"), &root))

	meta := model.Metadata{
		Name: "Build",
		Examples: []model.Example{
			{Title: "Basic", Description: "Minimal usage.", Example: root.Content[0]},
			{Description: "No code."},
		},
	}
	got := generate(t, "steps: []", meta, Options{HeadingDepth: 2})

	expected := "### Examples\n\n" +
		"#### Basic\n\n" +
		"Minimal usage.\n\n" +
		"```yaml\nsteps:\n  - template: build.yml\n```\n\n" +
		"No code.\n"
	assert.True(t, strings.HasSuffix(got, expected), got)
}

func TestGenerate_Idempotent(t *testing.T) {
	src := "parameters:\n  z: 1\n  y: [a]\n  x: {k: v}\njobs: []\n"
	meta := model.Metadata{
		Name:     "Same",
		FilePath: "same.yml",
		Repo:     &model.RepoMetadata{Identifier: "t", Name: "p/r", Type: model.RepoTypeGit},
	}

	first := generate(t, src, meta, DefaultOptions())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, generate(t, src, meta, DefaultOptions()))
	}
}

func TestGenerate_ParseError(t *testing.T) {
	out, err := Generate([]byte("steps: [\n"), model.Metadata{Name: "Bad"}, DefaultOptions())
	require.Error(t, err)
	assert.Empty(t, out)

	var parseErr *parser.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestRender_NilTemplate(t *testing.T) {
	assert.Equal(t, "# Nil\n", Render(nil, model.Metadata{Name: "Nil"}, Options{}))
}
