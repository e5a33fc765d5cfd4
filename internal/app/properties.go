package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tacogips/pipelinedoc/internal/config"
	"github.com/tacogips/pipelinedoc/internal/logging"
	"github.com/tacogips/pipelinedoc/internal/template/generator"
	"github.com/tacogips/pipelinedoc/internal/template/model"
	"github.com/tacogips/pipelinedoc/internal/template/parser"
)

// DefaultPropertiesVersion is proposed for new properties files.
const DefaultPropertiesVersion = "1.0.0"

// Prompter asks the user for values while scaffolding a properties file.
type Prompter interface {
	// Input asks for a line of text. def is returned when the user enters
	// nothing.
	Input(message, def string) (string, error)
}

// DefaultsPrompter answers every question with its default.
type DefaultsPrompter struct{}

// Input returns def.
func (DefaultsPrompter) Input(_, def string) (string, error) {
	return def, nil
}

// InitPropertiesOptions holds options for scaffolding a properties file.
type InitPropertiesOptions struct {
	// Template is the template file path.
	Template string
	// Force overwrites an existing properties file.
	Force bool
	// Prompter collects values. Nil means DefaultsPrompter.
	Prompter Prompter
}

// InitPropertiesResult holds the result of properties scaffolding.
type InitPropertiesResult struct {
	// Path is the written properties file.
	Path string
	// Content is the written YAML.
	Content string
	// Warnings are validation findings for the written file, such as
	// parameters left without a description.
	Warnings []config.Warning
}

// propertiesFile is the on-disk layout of a scaffolded properties file.
type propertiesFile struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Version     string     `yaml:"version"`
	Category    string     `yaml:"category,omitempty"`
	Parameters  *yaml.Node `yaml:"parameters,omitempty"`
}

// InitProperties writes <base>.properties.yml next to a template, asking for
// the name, description, version, category and a description per declared
// parameter.
func InitProperties(ctx context.Context, opts InitPropertiesOptions) (*InitPropertiesResult, error) {
	log := logging.Component("app")
	log.Debug().Str("template", opts.Template).Bool("force", opts.Force).Msg("properties init start")

	if opts.Template == "" {
		return nil, NewPropertiesInitError("template path cannot be empty", nil)
	}
	if !model.IsTemplatePath(opts.Template) {
		return nil, NewPropertiesInitError(fmt.Sprintf("not a template file: %s", opts.Template), nil)
	}

	prompter := opts.Prompter
	if prompter == nil {
		prompter = DefaultsPrompter{}
	}

	data, err := os.ReadFile(opts.Template)
	if err != nil {
		return nil, NewPropertiesInitError("failed to read template", err)
	}
	doc, err := parser.Parse(data)
	if err != nil {
		return nil, NewPropertiesInitError("failed to parse template", err)
	}

	if existing, found := config.FindPropertiesFile(opts.Template); found && !opts.Force {
		return nil, NewPropertiesInitError(
			fmt.Sprintf("properties file already exists: %s (use --force to overwrite)", existing),
			nil,
		)
	}
	target := model.PropertiesCandidates(opts.Template)[0]

	file := model.TemplateFile{Path: filepath.ToSlash(opts.Template)}
	props := propertiesFile{}
	ask := func(dst *string, message, def string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := prompter.Input(message, def)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}

	if err := ask(&props.Name, "Name", file.BaseName()); err != nil {
		return nil, NewPropertiesInitError("failed to read name", err)
	}
	if err := ask(&props.Description, "Description", parser.LeadingComment(data)); err != nil {
		return nil, NewPropertiesInitError("failed to read description", err)
	}
	if err := ask(&props.Version, "Version", DefaultPropertiesVersion); err != nil {
		return nil, NewPropertiesInitError("failed to read version", err)
	}
	if err := ask(&props.Category, "Category (optional)", ""); err != nil {
		return nil, NewPropertiesInitError("failed to read category", err)
	}

	params := parser.ParameterList(doc.Parameters)
	if len(params) > 0 {
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, p := range params {
			var desc string
			if err := ask(&desc, fmt.Sprintf("Description of parameter %q", p.Name), p.DisplayName); err != nil {
				return nil, NewPropertiesInitError(fmt.Sprintf("failed to read description of %s", p.Name), err)
			}
			// An empty answer leaves the description out so validation flags it.
			entry := &yaml.Node{Kind: yaml.MappingNode}
			if desc != "" {
				entry.Content = append(entry.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: config.PropDescription},
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: desc},
				)
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Name},
				entry,
			)
		}
		props.Parameters = node
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(props); err != nil {
		return nil, NewPropertiesInitError("failed to encode properties", err)
	}
	if err := enc.Close(); err != nil {
		return nil, NewPropertiesInitError("failed to encode properties", err)
	}

	if err := generator.NewFileWriter().WriteFile(target, buf.Bytes(), generator.DocumentMode); err != nil {
		return nil, NewPropertiesInitError("failed to write properties file", err)
	}

	written, err := config.ParseProperties(buf.Bytes())
	if err != nil {
		return nil, NewPropertiesInitError("written properties file is invalid", err)
	}
	written.Path = filepath.ToSlash(target)

	result := &InitPropertiesResult{
		Path:    target,
		Content: buf.String(),
	}
	result.Warnings = append(result.Warnings, config.ValidateProperties(written)...)
	result.Warnings = append(result.Warnings, config.ValidateParameters(written, file.Path, params)...)

	log.Debug().Str("path", target).Int("warnings", len(result.Warnings)).Msg("properties init complete")
	return result, nil
}
