package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tacogips/pipelinedoc/internal/template/model"
)

// Properties property names.
const (
	PropName              = "name"
	PropDescription       = "description"
	PropVersion           = "version"
	PropCategory          = "category"
	PropDeprecated        = "deprecated"
	PropDeprecatedWarning = "deprecatedWarning"
	PropParameters        = "parameters"
	PropExamples          = "examples"
	PropUsageStyle        = "usageStyle"
	PropFormat            = "format"
	PropTitle             = "title"
	PropExample           = "example"
)

// Properties is the human-authored metadata sidecar of a template
// (<base>.properties.yml, .yaml or .json).
//
// Values of the wrong shape are dropped here and reported by
// ValidateProperties and ValidateParameters.
type Properties struct {
	// Path is the properties file path.
	Path string

	Name              string
	Description       string
	Version           string
	Category          string
	Deprecated        *bool
	DeprecatedWarning string
	Parameters        map[string]model.ParameterMetadata
	Examples          []model.Example
	UsageStyle        model.UsageStyle

	// fields holds the raw top-level values by key.
	fields map[string]*yaml.Node
	// params holds the raw parameter entries in file order.
	params []rawParameter
}

type rawParameter struct {
	name  string
	value *yaml.Node
}

// FindPropertiesFile returns the first existing properties file for the
// given template path.
func FindPropertiesFile(templatePath string) (string, bool) {
	for _, candidate := range model.PropertiesCandidates(templatePath) {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

// LoadProperties reads and decodes a properties file. JSON files are read
// with the YAML decoder.
func LoadProperties(path string) (*Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewConfigErrorWithCause(ConfigNotFound, path, "properties file not found", err)
		}
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read properties file", err)
	}

	props, err := ParseProperties(data)
	if err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to load properties file", err)
	}
	props.Path = path
	return props, nil
}

// ParseProperties decodes properties file content.
func ParseProperties(data []byte) (*Properties, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	props := &Properties{
		fields:     map[string]*yaml.Node{},
		Parameters: map[string]model.ParameterMetadata{},
	}

	top := &root
	if top.Kind == yaml.DocumentNode && len(top.Content) > 0 {
		top = top.Content[0]
	}
	if top.Kind != yaml.MappingNode {
		return props, nil
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		props.fields[top.Content[i].Value] = deref(top.Content[i+1])
	}

	props.Name = scalar(props.fields[PropName])
	props.Description = strings.TrimSpace(scalar(props.fields[PropDescription]))
	props.Version = scalar(props.fields[PropVersion])
	props.Category = scalar(props.fields[PropCategory])
	props.DeprecatedWarning = scalar(props.fields[PropDeprecatedWarning])
	props.UsageStyle = model.UsageStyle(scalar(props.fields[PropUsageStyle]))

	if n := props.fields[PropDeprecated]; valueKind(n) == "boolean" {
		var b bool
		if err := n.Decode(&b); err == nil {
			props.Deprecated = &b
		}
	}

	if n := props.fields[PropParameters]; n != nil && n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			name := n.Content[i].Value
			value := deref(n.Content[i+1])
			props.params = append(props.params, rawParameter{name: name, value: value})

			var pm model.ParameterMetadata
			if value.Kind == yaml.MappingNode {
				pm.Description = stringField(value, PropDescription)
				pm.Format = stringField(value, PropFormat)
			}
			props.Parameters[name] = pm
		}
	}

	if n := props.fields[PropExamples]; n != nil && n.Kind == yaml.SequenceNode {
		for _, item := range n.Content {
			item = deref(item)
			if item.Kind != yaml.MappingNode {
				continue
			}
			props.Examples = append(props.Examples, model.Example{
				Title:       stringField(item, PropTitle),
				Description: stringField(item, PropDescription),
				Example:     field(item, PropExample),
			})
		}
	}

	return props, nil
}

// Metadata converts the properties into renderer metadata. An unset
// deprecated flag is implied by a deprecation warning.
func (p *Properties) Metadata() model.Metadata {
	deprecated := p.DeprecatedWarning != ""
	if p.Deprecated != nil {
		deprecated = *p.Deprecated
	}

	params := make(map[string]model.ParameterMetadata, len(p.Parameters))
	for k, v := range p.Parameters {
		params[k] = v
	}

	return model.Metadata{
		Name:              p.Name,
		Description:       p.Description,
		Version:           p.Version,
		Category:          p.Category,
		Deprecated:        deprecated,
		DeprecatedWarning: p.DeprecatedWarning,
		Parameters:        params,
		Examples:          p.Examples,
		UsageStyle:        p.UsageStyle,
	}
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// scalar returns the text of a non-null scalar, or "".
func scalar(n *yaml.Node) string {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return ""
	}
	return n.Value
}

func field(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return deref(m.Content[i+1])
		}
	}
	return nil
}

func stringField(m *yaml.Node, key string) string {
	n := field(m, key)
	if valueKind(n) != "string" {
		return ""
	}
	return strings.TrimRight(n.Value, "\n")
}

// valueKind names the shape of a value as warnings describe it:
// string, number, boolean, object, null, or "" when absent.
func valueKind(n *yaml.Node) string {
	n = deref(n)
	if n == nil {
		return ""
	}
	if n.Kind != yaml.ScalarNode {
		return "object"
	}
	switch n.ShortTag() {
	case "!!str":
		return "string"
	case "!!int", "!!float":
		return "number"
	case "!!bool":
		return "boolean"
	case "!!null":
		return "null"
	}
	return "object"
}
