// Package parser decodes pipeline templates and normalizes their parameter
// declarations into the model consumed by the renderer.
package parser

import (
	"gopkg.in/yaml.v3"

	"github.com/tacogips/pipelinedoc/internal/template/model"
)

// Top-level template keys.
const (
	keyParameters = "parameters"
	keySteps      = "steps"
	keyJobs       = "jobs"
	keyStages     = "stages"
	keyVariables  = "variables"
)

// Parse decodes template text into a Document.
//
// Empty input, or a document whose root is not a mapping, yields an empty
// Document. Invalid YAML yields a *ParseError.
func Parse(data []byte) (*model.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, newParseErrorWithCause(InvalidYAML, "invalid YAML", err)
	}

	doc := &model.Document{}
	top := documentRoot(&root)
	if top == nil || top.Kind != yaml.MappingNode {
		return doc, nil
	}

	for _, e := range mappingEntries(top) {
		value := e.value
		if isNull(value) {
			value = nil
		}
		switch e.key {
		case keyParameters:
			doc.Parameters = value
		case keySteps:
			doc.Steps = value
		case keyJobs:
			doc.Jobs = value
		case keyStages:
			doc.Stages = value
		case keyVariables:
			doc.Variables = value
		}
	}

	return doc, nil
}

// documentRoot returns the content node of a decoded document, or nil for
// empty input.
func documentRoot(root *yaml.Node) *yaml.Node {
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		return resolve(root.Content[0])
	}
	if root.Kind == 0 {
		return nil
	}
	return resolve(root)
}

// resolve follows alias nodes to their anchored value.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// scalarText returns the text of a non-null scalar node, or "".
func scalarText(n *yaml.Node) string {
	n = resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode || isNull(n) {
		return ""
	}
	return n.Value
}
