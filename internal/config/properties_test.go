package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/pipelinedoc/internal/template/model"
)

const fullProperties = `
name: Build
description: |
  Builds the solution.
version: 3
category: Build
deprecatedWarning: Use build-v2
usageStyle: insert
parameters:
  project:
    description: Project file
    format: path
  configuration:
    description: Build configuration
examples:
  - title: Basic
    description: Default settings
    example:
      steps:
        - template: build.yml
`

func mustParseProperties(t *testing.T, src string) *Properties {
	t.Helper()
	props, err := ParseProperties([]byte(src))
	require.NoError(t, err)
	return props
}

func TestParseProperties(t *testing.T) {
	props := mustParseProperties(t, fullProperties)

	assert.Equal(t, "Build", props.Name)
	assert.Equal(t, "Builds the solution.", props.Description)
	assert.Equal(t, "3", props.Version)
	assert.Equal(t, "Build", props.Category)
	assert.Nil(t, props.Deprecated)
	assert.Equal(t, "Use build-v2", props.DeprecatedWarning)
	assert.Equal(t, model.UsageInsert, props.UsageStyle)
	assert.Equal(t, model.ParameterMetadata{Description: "Project file", Format: "path"}, props.Parameters["project"])
	assert.Equal(t, "Build configuration", props.Parameters["configuration"].Description)

	require.Len(t, props.Examples, 1)
	assert.Equal(t, "Basic", props.Examples[0].Title)
	assert.Equal(t, "Default settings", props.Examples[0].Description)
	require.NotNil(t, props.Examples[0].Example)
}

func TestParseProperties_JSON(t *testing.T) {
	props := mustParseProperties(t, `{"name": "Deploy", "version": "1.2", "deprecated": false, "deprecatedWarning": "soon"}`)

	assert.Equal(t, "Deploy", props.Name)
	assert.Equal(t, "1.2", props.Version)
	require.NotNil(t, props.Deprecated)
	assert.False(t, *props.Deprecated)
}

func TestParseProperties_Empty(t *testing.T) {
	props := mustParseProperties(t, "")
	assert.Empty(t, props.Name)
	assert.Empty(t, props.Parameters)

	props = mustParseProperties(t, "- just\n- a list\n")
	assert.Empty(t, props.Name)
}

func TestParseProperties_Invalid(t *testing.T) {
	_, err := ParseProperties([]byte("name: [unclosed\n"))
	assert.Error(t, err)
}

func TestProperties_Metadata(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		deprecated bool
	}{
		{"warning implies deprecated", "deprecatedWarning: Use v2", true},
		{"explicit false wins", "deprecated: false\ndeprecatedWarning: Use v2", false},
		{"explicit true", "deprecated: true", true},
		{"neither", "name: x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := mustParseProperties(t, tt.src).Metadata()
			assert.Equal(t, tt.deprecated, meta.Deprecated)
		})
	}

	meta := mustParseProperties(t, fullProperties).Metadata()
	assert.Equal(t, "Build", meta.Name)
	assert.Equal(t, "3", meta.Version)
	assert.Equal(t, "path", meta.Parameters["project"].Format)
	assert.Len(t, meta.Examples, 1)
}

func TestFindPropertiesFile(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "build.yml")
	writeFile(t, template, "steps: []\n")

	_, found := FindPropertiesFile(template)
	assert.False(t, found)

	writeFile(t, filepath.Join(dir, "build.properties.json"), "{}")
	path, found := FindPropertiesFile(template)
	require.True(t, found)
	assert.Equal(t, filepath.Join(dir, "build.properties.json"), path)

	writeFile(t, filepath.Join(dir, "build.properties.yml"), "name: x\n")
	path, found = FindPropertiesFile(template)
	require.True(t, found)
	assert.Equal(t, filepath.Join(dir, "build.properties.yml"), path)
}

func TestLoadProperties(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.properties.yml")
	writeFile(t, path, "name: Build\n")

	props, err := LoadProperties(path)
	require.NoError(t, err)
	assert.Equal(t, path, props.Path)
	assert.Equal(t, "Build", props.Name)

	_, err = LoadProperties(filepath.Join(dir, "missing.properties.yml"))
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ConfigNotFound, cfgErr.Type)

	bad := filepath.Join(dir, "bad.properties.yml")
	writeFile(t, bad, "name: [\n")
	_, err = LoadProperties(bad)
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ConfigInvalid, cfgErr.Type)
}
