package render

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tacogips/pipelinedoc/internal/template/model"
	"github.com/tacogips/pipelinedoc/internal/template/parser"
)

// Each section builder returns the section's paragraphs, or nil when the
// section does not apply.

func headingSection(meta model.Metadata, depth int) []string {
	text := meta.Name
	if meta.Version != "" {
		text += " (v" + meta.Version + ")"
	}
	return []string{Heading(text, depth)}
}

func deprecationSection(meta model.Metadata) []string {
	if !meta.IsDeprecated() {
		return nil
	}
	notice := "⚠ DEPRECATED"
	if meta.DeprecatedWarning != "" {
		notice += ": " + meta.DeprecatedWarning
	}
	return []string{Bold(Italic(notice + " ⚠"))}
}

func kindSection(kind model.Kind) []string {
	if kind == model.KindNone {
		return nil
	}
	return []string{Italic("Template type: " + Code(string(kind)))}
}

func descriptionSection(meta model.Metadata) []string {
	if meta.Description == "" {
		return nil
	}
	return []string{meta.Description}
}

var parameterHeader = []string{"Parameter", "Type", "Default", "Description"}

func parametersSection(params []model.Parameter, depth int) []string {
	if len(params) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(params)+1)
	rows = append(rows, parameterHeader)
	for _, p := range params {
		rows = append(rows, []string{
			nameCell(p),
			typeCell(p),
			defaultCell(p),
			descriptionCell(p),
		})
	}

	return []string{
		Heading("Parameters", depth+1),
		Table(rows),
	}
}

func nameCell(p model.Parameter) string {
	cell := Code(p.Name)
	if parser.RequiredParameter(p) {
		cell += " (required)"
	}
	return cell
}

func typeCell(p model.Parameter) string {
	var parts []string
	if t := Code(string(p.Type)); t != "" {
		parts = append(parts, t)
	}
	if f := Code(p.Format); f != "" {
		parts = append(parts, "("+f+")")
	}
	if len(p.Values) > 0 {
		values := make([]string, len(p.Values))
		for i, v := range p.Values {
			values[i] = Code(parser.ToJSON(v))
		}
		parts = append(parts, "("+strings.Join(values, " | ")+")")
	}
	return strings.Join(parts, " ")
}

func defaultCell(p model.Parameter) string {
	if parser.RequiredParameter(p) {
		return "N/A"
	}
	return Code(parser.ToJSON(p.Default))
}

var descriptionReplacer = strings.NewReplacer(
	"\r\n\r\n", "<br/><br/>",
	"\n\n", "<br/><br/>",
	"\r\n", " ",
	"\n", " ",
)

func descriptionCell(p model.Parameter) string {
	desc := descriptionReplacer.Replace(strings.TrimSpace(p.Description))
	switch {
	case p.DisplayName != "" && desc != "":
		return p.DisplayName + "<br/>" + desc
	case desc != "":
		return desc
	}
	return p.DisplayName
}

func examplesSection(examples []model.Example, depth int) []string {
	if len(examples) == 0 {
		return nil
	}

	lines := []string{Heading("Examples", depth+1)}
	for _, ex := range examples {
		if ex.Title != "" {
			lines = append(lines, Heading(ex.Title, depth+2))
		}
		if ex.Description != "" {
			lines = append(lines, ex.Description)
		}
		if ex.Example != nil {
			lines = append(lines, YAMLBlock(blockStyle(ex.Example)))
		}
	}
	return lines
}

// blockStyle returns a copy of n with aliases inlined and flow collections
// switched to block style, so examples written inline in JSON or flow YAML
// render like hand-written pipeline YAML.
func blockStyle(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n == nil {
		return nil
	}

	cp := *n
	cp.Anchor = ""
	cp.Style &^= yaml.FlowStyle
	if len(n.Content) > 0 {
		cp.Content = make([]*yaml.Node, len(n.Content))
		for i, c := range n.Content {
			cp.Content[i] = blockStyle(c)
		}
	}
	return &cp
}
