package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/pipelinedoc/internal/config"
	"github.com/tacogips/pipelinedoc/internal/template/model"
	"github.com/tacogips/pipelinedoc/internal/template/parser"
)

const buildTemplate = `# Builds the solution.
parameters:
  - name: project
    type: string
steps:
  - script: dotnet build
`

const buildProperties = `name: Build
description: Builds the solution.
version: 1
parameters:
  project:
    description: Project file
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// templateFile writes content to root/rel and returns the discovered file.
func templateFile(t *testing.T, root, rel, content string) model.TemplateFile {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	writeFile(t, abs, content)
	return model.TemplateFile{Path: rel, AbsPath: abs}
}

func TestFileProcessor_WithProperties(t *testing.T) {
	root := t.TempDir()
	file := templateFile(t, root, "templates/build.yml", buildTemplate)
	writeFile(t, filepath.Join(root, "templates", "build.properties.yml"), buildProperties)

	doc, err := NewFileProcessor(ProcessOptions{HeadingDepth: 1}).Process(context.Background(), file)
	require.NoError(t, err)

	expected := strings.Join([]string{
		"# Build (v1)",
		"",
		"_Template type: `steps`_",
		"",
		"Builds the solution.",
		"",
		"## Example usage",
		"",
		"Insert template:",
		"",
		"```yaml",
		"jobs:",
		"  - job: my_job",
		"    steps:",
		"      - template: templates/build.yml",
		"        parameters:",
		"          project: string",
		"```",
		"",
		"## Parameters",
		"",
		"|Parameter|Type|Default|Description|",
		"|---|---|---|---|",
		"|`project` (required)|`string`|N/A|Project file|",
		"",
	}, "\n")
	if diff := cmp.Diff(expected, doc.Content); diff != "" {
		t.Errorf("Process() mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, doc.Warnings)
	assert.Equal(t, model.KindSteps, doc.Kind)
	assert.Equal(t, "templates/build.yml.md", doc.OutputPath)
	assert.Equal(t, "templates/build.properties.yml", doc.PropertiesFile)
	assert.Equal(t, "templates/build.yml", doc.Metadata.FilePath)
}

func TestFileProcessor_Fallbacks(t *testing.T) {
	root := t.TempDir()
	file := templateFile(t, root, "deploy.stage.yml", "# Deploys the app.\n#\n# Needs an environment.\nstages: []\n")

	doc, err := NewFileProcessor(ProcessOptions{}).Process(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, "deploy.stage", doc.Metadata.Name)
	assert.Equal(t, "Deploys the app.\n\nNeeds an environment.", doc.Metadata.Description)
	assert.Empty(t, doc.PropertiesFile)
	require.Len(t, doc.Warnings, 1)
	assert.Equal(t, config.MissingPropertiesWarning("deploy.stage.yml"), doc.Warnings[0])
	assert.True(t, strings.HasPrefix(doc.Content, "# deploy.stage\n"))
}

func TestFileProcessor_PropertiesWarnings(t *testing.T) {
	root := t.TempDir()
	file := templateFile(t, root, "build.yml", buildTemplate)
	writeFile(t, filepath.Join(root, "build.properties.json"), `{"version": true, "parameters": {"ghost": {"description": "x"}}}`)

	doc, err := NewFileProcessor(ProcessOptions{}).Process(context.Background(), file)
	require.NoError(t, err)

	var messages []string
	for _, w := range doc.Warnings {
		messages = append(messages, w.Message)
	}
	assert.Equal(t, []string{
		"Missing property 'name' in properties file build.properties.json",
		"Missing property 'description' in properties file build.properties.json",
		"Property 'version' is incorrect type (expected string|number) in properties file build.properties.json",
		"Parameter 'ghost' from properties file build.properties.json does not exist in corresponding template build.yml",
	}, messages)

	// Name and description fall back even with a properties file.
	assert.Equal(t, "build", doc.Metadata.Name)
	assert.Equal(t, "Builds the solution.", doc.Metadata.Description)
}

func TestFileProcessor_Options(t *testing.T) {
	root := t.TempDir()
	file := templateFile(t, root, "build.yml", buildTemplate)
	writeFile(t, filepath.Join(root, "build.properties.yml"), buildProperties)

	repo := &model.RepoMetadata{Identifier: "templates", Name: "acme/pipelines", Type: model.RepoTypeGitHub}
	doc, err := NewFileProcessor(ProcessOptions{
		HeadingDepth: 2,
		Repo:         repo,
		FrontMatter:  true,
		Layout:       "docs.njk",
	}).Process(context.Background(), file)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc.Content, "---\ntitle: Build\nlayout: docs.njk\n"), doc.Content)
	assert.Contains(t, doc.Content, "\n## Build (v1)\n")
	assert.Contains(t, doc.Content, "template: build.yml@templates")
	assert.Contains(t, doc.Content, "name: acme/pipelines")
	assert.Same(t, repo, doc.Metadata.Repo)
}

func TestFileProcessor_Errors(t *testing.T) {
	root := t.TempDir()

	t.Run("invalid yaml", func(t *testing.T) {
		file := templateFile(t, root, "bad.yml", "steps: [unclosed\n")
		_, err := NewFileProcessor(ProcessOptions{}).Process(context.Background(), file)
		require.Error(t, err)

		var docErr *DocumentError
		require.True(t, errors.As(err, &docErr))
		assert.Equal(t, "bad.yml", docErr.File)
		assert.Equal(t, model.KindNone, docErr.Kind)

		var parseErr *parser.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "bad.yml", parseErr.File)
		assert.True(t, strings.HasPrefix(err.Error(), "bad.yml: invalid YAML"), err.Error())
	})

	t.Run("invalid properties", func(t *testing.T) {
		file := templateFile(t, root, "props.yml", "steps: []\n")
		writeFile(t, filepath.Join(root, "props.properties.yml"), "name: [\n")
		_, err := NewFileProcessor(ProcessOptions{}).Process(context.Background(), file)

		var cfgErr *config.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, config.ConfigInvalid, cfgErr.Type)
		assert.True(t, strings.HasPrefix(err.Error(), "props.yml: "), err.Error())

		var docErr *DocumentError
		require.True(t, errors.As(err, &docErr))
		assert.Equal(t, model.KindSteps, docErr.Kind, "the template parsed before the properties failed")
	})

	t.Run("missing template", func(t *testing.T) {
		file := model.TemplateFile{Path: "gone.yml", AbsPath: filepath.Join(root, "gone.yml")}
		_, err := NewFileProcessor(ProcessOptions{}).Process(context.Background(), file)

		var genErr *GeneratorError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, GeneratorProcessFailed, genErr.Type)
	})
}

func TestGenerator_Generate(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "docs")

	build := templateFile(t, root, "templates/build.yml", buildTemplate)
	writeFile(t, filepath.Join(root, "templates", "build.properties.yml"), buildProperties)
	deploy := templateFile(t, root, "deploy.yml", "jobs: []\n")
	bad := templateFile(t, root, "bad.yml", "jobs: [\n")

	// An existing document is overwritten.
	writeFile(t, filepath.Join(out, "deploy.yml.md"), "stale")

	opts := GenerateOptions{
		Templates:   []model.TemplateFile{build, bad, deploy},
		OutputDir:   out,
		Concurrency: 2,
		Process:     ProcessOptions{HeadingDepth: 1},
	}
	result, err := NewGenerator().Generate(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesCreated)
	assert.Equal(t, 1, result.FilesOverwritten)
	require.Len(t, result.Documents, 2)
	assert.Equal(t, "templates/build.yml", result.Documents[0].Template.Path)
	assert.Equal(t, "deploy.yml", result.Documents[1].Template.Path)
	assert.Equal(t, []string{
		filepath.Join(out, "templates", "build.yml.md"),
		filepath.Join(out, "deploy.yml.md"),
	}, result.Files)

	require.Len(t, result.Errors, 1)
	var docErr *DocumentError
	require.True(t, errors.As(result.Errors[0], &docErr))
	assert.Equal(t, "bad.yml", docErr.File)
	assert.Equal(t, model.KindNone, docErr.Kind)

	// deploy.yml has no properties file.
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "deploy.yml", result.Warnings[0].File)

	data, err := os.ReadFile(filepath.Join(out, "templates", "build.yml.md"))
	require.NoError(t, err)
	assert.Equal(t, result.Documents[0].Content, string(data))

	data, err = os.ReadFile(filepath.Join(out, "deploy.yml.md"))
	require.NoError(t, err)
	assert.Equal(t, "# deploy\n\n_Template type: `jobs`_\n\n## Example usage\n\nInsert template:\n\n```yaml\njobs:\n  - template: deploy.yml\n```\n", string(data))

	info, err := os.Stat(filepath.Join(out, "deploy.yml.md"))
	require.NoError(t, err)
	assert.Equal(t, DocumentMode, info.Mode().Perm())

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temporary file left behind: %s", e.Name())
	}
}

func TestGenerator_WriteFailureKeepsKind(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "docs")
	build := templateFile(t, root, "templates/build.yml", buildTemplate)

	// A file where the document directory belongs makes the write fail.
	writeFile(t, filepath.Join(out, "templates"), "")

	result, err := NewGenerator().Generate(context.Background(), GenerateOptions{
		Templates: []model.TemplateFile{build},
		OutputDir: out,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Documents)
	require.Len(t, result.Errors, 1)

	var docErr *DocumentError
	require.True(t, errors.As(result.Errors[0], &docErr))
	assert.Equal(t, "templates/build.yml", docErr.File)
	assert.Equal(t, model.KindSteps, docErr.Kind)

	var genErr *GeneratorError
	require.True(t, errors.As(result.Errors[0], &genErr))
	assert.Equal(t, GeneratorWriteFailed, genErr.Type)
}

func TestGenerator_DryRun(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "docs")
	file := templateFile(t, root, "deploy.yml", "jobs: []\n")

	result, err := NewGenerator().DryRun(context.Background(), GenerateOptions{
		Templates: []model.TemplateFile{file},
		OutputDir: out,
	})
	require.NoError(t, err)

	require.Len(t, result.DryRunFiles, 1)
	assert.Equal(t, filepath.Join(out, "deploy.yml.md"), result.DryRunFiles[0].Path)
	assert.False(t, result.DryRunFiles[0].Exists)
	assert.Contains(t, string(result.DryRunFiles[0].Content), "# deploy")
	assert.Zero(t, result.FilesCreated)

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "dry run must not create the output directory")
}

func TestGenerator_Canceled(t *testing.T) {
	root := t.TempDir()
	file := templateFile(t, root, "deploy.yml", "jobs: []\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator().Generate(ctx, GenerateOptions{
		Templates: []model.TemplateFile{file},
		OutputDir: filepath.Join(t.TempDir(), "docs"),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerator_InvalidOptions(t *testing.T) {
	_, err := NewGenerator().Generate(context.Background(), GenerateOptions{})

	var genErr *GeneratorError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, GeneratorPathError, genErr.Type)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		docPath string
		want    string
		wantErr bool
	}{
		{"simple", "build.yml.md", filepath.Join("out", "build.yml.md"), false},
		{"nested", "templates/jobs/deploy.yml.md", filepath.Join("out", "templates", "jobs", "deploy.yml.md"), false},
		{"cleaned", "templates/../build.yml.md", filepath.Join("out", "build.yml.md"), false},
		{"empty", "", "", true},
		{"absolute", "/etc/passwd.md", "", true},
		{"traversal", "../outside.md", "", true},
		{"dot", ".", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputPath("out", tt.docPath)
			if tt.wantErr {
				var genErr *GeneratorError
				require.True(t, errors.As(err, &genErr))
				assert.Equal(t, GeneratorPathError, genErr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileWriter(t *testing.T) {
	w := NewFileWriter()
	path := filepath.Join(t.TempDir(), "a", "b", "doc.md")

	assert.False(t, w.Exists(path))
	require.NoError(t, w.WriteFile(path, []byte("one"), DocumentMode))
	require.NoError(t, w.WriteFile(path, []byte("two"), DocumentMode))
	assert.True(t, w.Exists(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "staged files are renamed into place")
	assert.Equal(t, "doc.md", entries[0].Name())

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	err = w.WriteFile(filepath.Join(blocker, "doc.md"), []byte("x"), DocumentMode)
	var genErr *GeneratorError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, GeneratorWriteFailed, genErr.Type)
}

func TestGeneratorError_Error(t *testing.T) {
	cause := errors.New("disk full")
	assert.Equal(t, "failed to write (file: a.md): disk full",
		newGeneratorError(GeneratorWriteFailed, "failed to write", "a.md", cause).Error())
	assert.Equal(t, "bad path", newGeneratorError(GeneratorPathError, "bad path", "", nil).Error())

	docErr := &DocumentError{File: "a.yml", Cause: cause}
	assert.Equal(t, "a.yml: disk full", docErr.Error())
	assert.ErrorIs(t, docErr, cause)
}
