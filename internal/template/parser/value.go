package parser

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// entry is one resolved key/value pair of a mapping node.
type entry struct {
	key   string
	value *yaml.Node
}

// mappingEntries flattens a mapping node into ordered entries. Merge keys
// (<<) are expanded. Duplicate keys keep their first position and take the
// last explicit value.
func mappingEntries(n *yaml.Node) []entry {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}

	out := make([]entry, 0, len(n.Content)/2)
	positions := make(map[string]int, len(n.Content)/2)
	add := func(key string, value *yaml.Node, override bool) {
		if i, ok := positions[key]; ok {
			if override {
				out[i].value = value
			}
			return
		}
		positions[key] = len(out)
		out = append(out, entry{key: key, value: value})
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolve(n.Content[i])
		value := resolve(n.Content[i+1])
		if key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge" {
			for _, src := range mergeSources(value) {
				for _, e := range mappingEntries(src) {
					add(e.key, e.value, false)
				}
			}
			continue
		}
		add(key.Value, value, true)
	}

	return out
}

func mergeSources(n *yaml.Node) []*yaml.Node {
	switch {
	case n == nil:
		return nil
	case n.Kind == yaml.MappingNode:
		return []*yaml.Node{n}
	case n.Kind == yaml.SequenceNode:
		sources := make([]*yaml.Node, 0, len(n.Content))
		for _, item := range n.Content {
			if item = resolve(item); item != nil && item.Kind == yaml.MappingNode {
				sources = append(sources, item)
			}
		}
		return sources
	}
	return nil
}

// ToJSON renders a YAML value as compact JSON, preserving mapping order.
//
// A nil node renders as "null". Non-finite floats render as null. Scalars
// without a JSON counterpart (timestamps, binary) render as strings.
func ToJSON(n *yaml.Node) string {
	var b strings.Builder
	writeJSON(&b, n)
	return b.String()
}

func writeJSON(b *strings.Builder, n *yaml.Node) {
	n = resolve(n)
	if n == nil {
		b.WriteString("null")
		return
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			b.WriteString("null")
			return
		}
		writeJSON(b, n.Content[0])

	case yaml.SequenceNode:
		b.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON(b, item)
		}
		b.WriteByte(']')

	case yaml.MappingNode:
		b.WriteByte('{')
		for i, e := range mappingEntries(n) {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteJSON(e.key))
			b.WriteByte(':')
			writeJSON(b, e.value)
		}
		b.WriteByte('}')

	case yaml.ScalarNode:
		writeScalar(b, n)

	default:
		b.WriteString("null")
	}
}

func writeScalar(b *strings.Builder, n *yaml.Node) {
	switch n.ShortTag() {
	case "!!null":
		b.WriteString("null")
		return

	case "!!bool":
		var v bool
		if err := n.Decode(&v); err == nil {
			if v {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
			return
		}

	case "!!int":
		var v any
		if err := n.Decode(&v); err == nil {
			if f, ok := v.(float64); ok {
				writeFloat(b, f)
				return
			}
			if out, err := json.Marshal(v); err == nil {
				b.Write(out)
				return
			}
		}

	case "!!float":
		var v float64
		if err := n.Decode(&v); err == nil {
			writeFloat(b, v)
			return
		}
	}

	b.WriteString(quoteJSON(n.Value))
}

func writeFloat(b *strings.Builder, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		b.WriteString("null")
		return
	}
	if f == 0 {
		// Negative zero prints as 0.
		b.WriteString("0")
		return
	}
	out, err := json.Marshal(f)
	if err != nil {
		b.WriteString("null")
		return
	}
	b.Write(out)
}

// quoteJSON returns s as a JSON string literal without HTML escaping.
func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
