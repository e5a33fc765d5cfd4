package render

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlIndent is the indentation used for YAML code blocks.
const yamlIndent = 2

// Heading returns an ATX heading at the given depth. Depths below 1 are
// treated as 1.
func Heading(text string, depth int) string {
	if depth < 1 {
		depth = 1
	}
	return strings.Repeat("#", depth) + " " + text
}

// Bold wraps text in strong emphasis.
func Bold(text string) string {
	return "**" + text + "**"
}

// Italic wraps text in emphasis.
func Italic(text string) string {
	return "_" + text + "_"
}

// Code returns text as inline code, or "" when text is blank.
func Code(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return "`" + text + "`"
}

// CodeBlock returns a fenced code block.
func CodeBlock(lang, text string) string {
	return "```" + lang + "\n" + strings.TrimSpace(text) + "\n```"
}

// YAMLBlock encodes n as a fenced yaml code block. A value the encoder
// rejects renders as an empty block.
func YAMLBlock(n *yaml.Node) string {
	text, err := encodeYAML(n)
	if err != nil {
		return CodeBlock("yaml", "")
	}
	return CodeBlock("yaml", text)
}

func encodeYAML(n *yaml.Node) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(n); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Table renders rows as a Markdown table; the first row is the header.
// Newlines inside cells are flattened and pipes are escaped.
func Table(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, tableRow(rows[0]))

	separator := make([]string, len(rows[0]))
	for i := range separator {
		separator[i] = "---"
	}
	lines = append(lines, "|"+strings.Join(separator, "|")+"|")

	for _, row := range rows[1:] {
		lines = append(lines, tableRow(row))
	}
	return strings.Join(lines, "\n")
}

var cellReplacer = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	"|", `\|`,
)

func tableRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = cellReplacer.Replace(c)
	}
	return "|" + strings.Join(escaped, "|") + "|"
}

// Link renders an inline link. An empty href links to the text itself.
func Link(text, href string) string {
	if href == "" {
		href = text
	}
	return "[" + text + "](" + href + ")"
}
