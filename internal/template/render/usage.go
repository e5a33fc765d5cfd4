package render

import (
	"gopkg.in/yaml.v3"

	"github.com/tacogips/pipelinedoc/internal/template/model"
)

// usageJobName is the job that wraps steps templates in usage examples.
const usageJobName = "my_job"

func usageSection(tmpl *model.NormalizedTemplate, meta model.Metadata, depth int) []string {
	if meta.FilePath == "" || tmpl.Kind == model.KindNone {
		return nil
	}

	ref := meta.FilePath
	if meta.Repo != nil {
		ref += "@" + meta.Repo.Identifier
	}

	lines := []string{Heading("Example usage", depth+1)}
	if meta.Repo != nil {
		lines = append(lines,
			"Use template repository:",
			YAMLBlock(repositoryNode(meta.Repo)),
		)
	}

	if meta.UsageStyle == model.UsageExtend {
		return append(lines,
			"Extend template:",
			YAMLBlock(mapping(field{"extends", templateReference(ref, tmpl.Parameters)})),
		)
	}

	return append(lines,
		"Insert template:",
		YAMLBlock(insertNode(tmpl.Kind, templateReference(ref, tmpl.Parameters))),
	)
}

// insertNode wraps a template reference in the list matching the template kind.
func insertNode(kind model.Kind, reference *yaml.Node) *yaml.Node {
	switch kind {
	case model.KindSteps:
		return mapping(field{"jobs", sequence(
			mapping(
				field{"job", str(usageJobName)},
				field{"steps", sequence(reference)},
			),
		)})
	case model.KindJobs:
		return mapping(field{"jobs", sequence(reference)})
	case model.KindStages:
		return mapping(field{"stages", sequence(reference)})
	case model.KindVariables:
		return mapping(field{"variables", sequence(reference)})
	}
	return nil
}

// templateReference builds {template, parameters}. The parameters mapping
// lists each parameter's type and is left out when there are no parameters.
func templateReference(ref string, params []model.Parameter) *yaml.Node {
	return mapping(
		field{"template", str(ref)},
		field{"parameters", parameterTypes(params)},
	)
}

func parameterTypes(params []model.Parameter) *yaml.Node {
	if len(params) == 0 {
		return nil
	}

	fields := make([]field, 0, len(params))
	positions := make(map[string]int, len(params))
	for _, p := range params {
		f := field{p.Name, str(string(p.Type))}
		if i, ok := positions[p.Name]; ok {
			fields[i] = f
			continue
		}
		positions[p.Name] = len(fields)
		fields = append(fields, f)
	}
	return mapping(fields...)
}

func repositoryNode(repo *model.RepoMetadata) *yaml.Node {
	return mapping(field{"resources", mapping(
		field{"repositories", sequence(
			mapping(
				field{"repo", optional(repo.Identifier)},
				field{"name", optional(repo.Name)},
				field{"ref", optional(repo.Ref)},
				field{"type", optional(string(repo.Type))},
				field{"endpoint", optional(repo.Endpoint)},
			),
		)},
	)})
}

type field struct {
	key   string
	value *yaml.Node
}

// mapping builds a mapping node, skipping fields with a nil value.
func mapping(fields ...field) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		n.Content = append(n.Content, str(f.key), f.value)
	}
	return n
}

func sequence(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
}

// str builds a string scalar. The encoder quotes values that would otherwise
// read back as another type; empty strings are single quoted.
func str(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if s == "" {
		n.Style = yaml.SingleQuotedStyle
	}
	return n
}

func optional(s string) *yaml.Node {
	if s == "" {
		return nil
	}
	return str(s)
}
