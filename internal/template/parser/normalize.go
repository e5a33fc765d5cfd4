package parser

import (
	"gopkg.in/yaml.v3"

	"github.com/tacogips/pipelinedoc/internal/template/model"
)

// Parameter declaration keys.
const (
	keyName        = "name"
	keyDisplayName = "displayName"
	keyType        = "type"
	keyDefault     = "default"
	keyValues      = "values"
)

// Normalize builds the renderer's view of a template: its kind and canonical
// parameter list, with per-parameter description and format merged from meta.
func Normalize(doc *model.Document, meta model.Metadata) *model.NormalizedTemplate {
	if doc == nil {
		doc = &model.Document{}
	}

	params := ParameterList(doc.Parameters)
	for i := range params {
		if pm, ok := meta.Parameters[params[i].Name]; ok {
			params[i].Description = pm.Description
			params[i].Format = pm.Format
		}
	}

	return &model.NormalizedTemplate{
		Kind:       TemplateKind(doc),
		Parameters: params,
	}
}

// TemplateKind classifies a template by the first present block in the order
// steps, jobs, stages, variables. An empty list or mapping counts as present.
func TemplateKind(doc *model.Document) model.Kind {
	switch {
	case doc == nil:
		return model.KindNone
	case doc.Steps != nil:
		return model.KindSteps
	case doc.Jobs != nil:
		return model.KindJobs
	case doc.Stages != nil:
		return model.KindStages
	case doc.Variables != nil:
		return model.KindVariables
	}
	return model.KindNone
}

// RequiredParameter reports whether p has no default. A default of false, 0,
// "" or null still makes the parameter optional.
func RequiredParameter(p model.Parameter) bool {
	return p.Default == nil
}

// ParameterList converts the raw parameters value into an ordered list.
//
// A sequence is read as a list of declarations. A mapping is read as
// name -> default, keeping insertion order and inferring each type from the
// default's shape; a repeated name keeps its first position and its last
// value. Anything else, including nil, yields nil.
func ParameterList(raw *yaml.Node) []model.Parameter {
	raw = resolve(raw)
	if isNull(raw) {
		return nil
	}

	switch raw.Kind {
	case yaml.SequenceNode:
		params := make([]model.Parameter, 0, len(raw.Content))
		for _, item := range raw.Content {
			params = append(params, declaration(resolve(item)))
		}
		return params

	case yaml.MappingNode:
		entries := mappingEntries(raw)
		params := make([]model.Parameter, 0, len(entries))
		for _, e := range entries {
			params = append(params, model.Parameter{
				Name:    e.key,
				Default: e.value,
				Type:    inferType(e.value),
			})
		}
		return params
	}

	return nil
}

// declaration reads one entry of a list-form parameters block. Entries that
// are not mappings become empty declarations.
func declaration(item *yaml.Node) model.Parameter {
	var p model.Parameter
	if item == nil || item.Kind != yaml.MappingNode {
		return p
	}

	for _, e := range mappingEntries(item) {
		value := e.value
		switch e.key {
		case keyName:
			p.Name = scalarText(value)
		case keyDisplayName:
			p.DisplayName = scalarText(value)
		case keyType:
			p.Type = model.ParameterType(scalarText(value))
		case keyDefault:
			p.Default = value
		case keyValues:
			if value != nil && value.Kind == yaml.SequenceNode {
				p.Values = make([]*yaml.Node, 0, len(value.Content))
				for _, v := range value.Content {
					p.Values = append(p.Values, resolve(v))
				}
			}
		}
	}

	return p
}

// inferType guesses a parameter type from a mapping-form default value.
func inferType(n *yaml.Node) model.ParameterType {
	if isNull(n) {
		return ""
	}

	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		return model.ParamTypeObject
	}

	switch n.ShortTag() {
	case "!!int", "!!float":
		return model.ParamTypeNumber
	case "!!bool":
		return model.ParamTypeBoolean
	case "!!timestamp", "!!binary":
		return model.ParamTypeObject
	}
	return model.ParamTypeString
}
