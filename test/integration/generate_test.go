package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/pipelinedoc/internal/app"
	"github.com/tacogips/pipelinedoc/internal/config"
	"github.com/tacogips/pipelinedoc/internal/template/model"
)

func TestGenerate_AzureTemplates(t *testing.T) {
	base := copyFixtureToTemp(t, "azure-templates")
	cfg := fixtureConfig(t)

	result, err := app.Generate(context.Background(), app.GenerateOptions{Config: cfg, BaseDir: base})
	require.NoError(t, err)
	require.Empty(t, result.Errors())
	assert.False(t, result.Failed())

	assert.Equal(t, 4, result.Generation.FilesCreated)
	for _, doc := range []string{
		"jobs/deploy.yml.md",
		"stages/pipeline.yml.md",
		"steps/build.yml.md",
		"variables/common.yml.md",
	} {
		assert.FileExists(t, filepath.Join(cfg.Output.Dir, filepath.FromSlash(doc)))
	}
	assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, "steps", "build.properties.yml.md"))

	var warnings []string
	for _, w := range result.Warnings() {
		warnings = append(warnings, w.Message)
	}
	assert.Equal(t, []string{
		"Missing properties file variables/common.properties.(yml|yaml|json) for template variables/common.yml",
	}, warnings)

	t.Run("steps template", func(t *testing.T) {
		expected := strings.Join([]string{
			"# Build solution (v3)",
			"",
			"_Template type: `steps`_",
			"",
			"Restores and builds a .NET solution.",
			"",
			"## Example usage",
			"",
			"Use template repository:",
			"",
			"```yaml",
			"resources:",
			"  repositories:",
			"    - repo: templates",
			"      name: Platform/Templates",
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
			"      - template: steps/build.yml@templates",
			"        parameters:",
			"          solution: string",
			"          configuration: string",
			"```",
			"",
			"## Parameters",
			"",
			"|Parameter|Type|Default|Description|",
			"|---|---|---|---|",
			"|`solution` (required)|`string` (`glob`)|N/A|Path to the solution file|",
			"|`configuration`|`string` (`\"Debug\"` \\| `\"Release\"`)|`\"Release\"`|Build configuration<br/>Configuration to build|",
			"",
			"## Examples",
			"",
			"### Release build",
			"",
			"Builds the application solution.",
			"",
			"```yaml",
			"steps:",
			"  - template: steps/build.yml@templates",
			"    parameters:",
			"      solution: src/App.sln",
			"```",
			"",
		}, "\n")

		got := readFile(t, filepath.Join(cfg.Output.Dir, "steps", "build.yml.md"))
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("steps/build.yml.md mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("deprecated jobs template", func(t *testing.T) {
		got := readFile(t, filepath.Join(cfg.Output.Dir, "jobs", "deploy.yml.md"))

		assert.True(t, strings.HasPrefix(got, "# Deploy web app (v1.2)\n\n**_⚠ DEPRECATED: Use jobs/deploy-v2.yml instead. ⚠_**\n"))
		assert.Contains(t, got, "_Template type: `jobs`_")
		assert.Contains(t, got, "|`environment`|`string`|`\"staging\"`|Target environment|")
		assert.Contains(t, got, "|`slots`|`number`|`2`|Number of deployment slots|")
		assert.Contains(t, got, "|`approvals`|`boolean`|`true`|Require manual approval|")
	})

	t.Run("extended stages template", func(t *testing.T) {
		got := readFile(t, filepath.Join(cfg.Output.Dir, "stages", "pipeline.yml.md"))

		assert.Contains(t, got, "Extend template:\n\n```yaml\nextends:\n  template: stages/pipeline.yml@templates\n  parameters:\n    stages: stageList\n```")
		assert.NotContains(t, got, "Insert template:")
	})

	t.Run("template without properties", func(t *testing.T) {
		got := readFile(t, filepath.Join(cfg.Output.Dir, "variables", "common.yml.md"))

		assert.True(t, strings.HasPrefix(got, "# common\n\n_Template type: `variables`_\n\nShared variables.\n"))
		assert.NotContains(t, got, "## Parameters")
	})

	t.Run("index", func(t *testing.T) {
		expected := "# Pipeline Docs\n" +
			"\n" +
			"- [variables/common.yml](variables/common.yml.md)\n" +
			"\n" +
			"## Build\n" +
			"\n" +
			"- [stages/pipeline.yml](stages/pipeline.yml.md)\n" +
			"- [steps/build.yml](steps/build.yml.md)\n" +
			"\n" +
			"## Deploy\n" +
			"\n" +
			"- [jobs/deploy.yml](jobs/deploy.yml.md)\n"

		got := readFile(t, filepath.Join(cfg.Output.Dir, model.IndexFile))
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("index.md mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("regenerate overwrites", func(t *testing.T) {
		again, err := app.Generate(context.Background(), app.GenerateOptions{Config: cfg, BaseDir: base})
		require.NoError(t, err)
		assert.Equal(t, 0, again.Generation.FilesCreated)
		assert.Equal(t, 4, again.Generation.FilesOverwritten)
	})
}

func TestGenerate_BrokenTemplate(t *testing.T) {
	base := copyFixtureToTemp(t, "azure-templates")
	require.NoError(t, os.WriteFile(filepath.Join(base, "steps", "broken.yml"), []byte("steps:\n  - script: [\n"), 0644))
	cfg := fixtureConfig(t)

	result, err := app.Generate(context.Background(), app.GenerateOptions{Config: cfg, BaseDir: base})
	require.NoError(t, err)

	require.Len(t, result.Errors(), 1)
	assert.True(t, strings.HasPrefix(result.Errors()[0].Error(), "steps/broken.yml: "))
	assert.True(t, result.Failed())

	// The other templates are still documented and indexed.
	assert.Equal(t, 4, result.Generation.FilesCreated)
	assert.NotContains(t, readFile(t, filepath.Join(cfg.Output.Dir, model.IndexFile)), "broken")
}

func TestInitProperties_ThenGenerate(t *testing.T) {
	base := copyFixtureToTemp(t, "azure-templates")
	cfg := fixtureConfig(t)
	cfg.Validation.Strict = true

	result, err := app.Generate(context.Background(), app.GenerateOptions{Config: cfg, BaseDir: base})
	require.NoError(t, err)
	assert.True(t, result.Failed(), "missing properties fail strict runs")

	initResult, err := app.InitProperties(context.Background(), app.InitPropertiesOptions{
		Template: filepath.Join(base, "variables", "common.yml"),
	})
	require.NoError(t, err)
	assert.Empty(t, initResult.Warnings)

	props, err := config.LoadProperties(initResult.Path)
	require.NoError(t, err)
	assert.Equal(t, "common", props.Name)
	assert.Equal(t, "Shared variables.", props.Description)

	result, err = app.Generate(context.Background(), app.GenerateOptions{Config: cfg, BaseDir: base})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings())
	assert.False(t, result.Failed())

	got := readFile(t, filepath.Join(cfg.Output.Dir, "variables", "common.yml.md"))
	assert.True(t, strings.HasPrefix(got, "# common (v"+app.DefaultPropertiesVersion+")\n"))
}
