package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tacogips/pipelinedoc/internal/template/model"
)

// Warning is a non-fatal problem found while checking a template's
// properties. In strict mode warnings fail the run.
type Warning struct {
	// File is the file the warning is about.
	File string
	// Message describes the problem.
	Message string
}

// String implements fmt.Stringer.
func (w Warning) String() string {
	return w.Message
}

// propertyRule describes one expected top-level property.
type propertyRule struct {
	name     string
	types    []string
	required bool
}

var propertyRules = []propertyRule{
	{PropName, []string{"string"}, true},
	{PropDescription, []string{"string"}, true},
	{PropVersion, []string{"string", "number"}, true},
	{PropDeprecated, []string{"boolean"}, false},
	{PropDeprecatedWarning, []string{"string"}, false},
	{PropCategory, []string{"string"}, false},
	{PropExamples, []string{"object"}, false},
	{PropUsageStyle, []string{"string"}, false},
}

// MissingPropertiesWarning reports a template without a properties file.
func MissingPropertiesWarning(templatePath string) Warning {
	base := strings.TrimSuffix(templatePath, extOf(templatePath))
	return Warning{
		File:    templatePath,
		Message: fmt.Sprintf("Missing properties file %s.properties.(yml|yaml|json) for template %s", base, templatePath),
	}
}

// ValidateProperties checks the top-level properties for presence and type.
func ValidateProperties(p *Properties) []Warning {
	var warnings []Warning
	for _, rule := range propertyRules {
		if w, ok := checkProperty(p, rule); !ok {
			warnings = append(warnings, w)
		}
	}

	if p.UsageStyle != "" && p.UsageStyle != model.UsageInsert && p.UsageStyle != model.UsageExtend {
		warnings = append(warnings, Warning{
			File:    p.Path,
			Message: fmt.Sprintf("Property '%s' has unknown value %q (expected insert|extend) in properties file %s", PropUsageStyle, p.UsageStyle, p.Path),
		})
	}
	return warnings
}

// ValidateParameters checks the parameters block of a properties file
// against the parameters the template declares.
func ValidateParameters(p *Properties, templatePath string, params []model.Parameter) []Warning {
	var warnings []Warning

	if len(params) > 0 {
		if w, ok := checkProperty(p, propertyRule{PropParameters, []string{"object"}, true}); !ok {
			warnings = append(warnings, w)
		}
	}

	declared := make(map[string]bool, len(params))
	for _, param := range params {
		declared[param.Name] = true
	}

	for _, raw := range p.params {
		if !declared[raw.name] {
			warnings = append(warnings, Warning{
				File: p.Path,
				Message: fmt.Sprintf("Parameter '%s' from properties file %s does not exist in corresponding template %s",
					raw.name, p.Path, templatePath),
			})
			continue
		}

		var description, format string
		if raw.value != nil && raw.value.Kind == yaml.MappingNode {
			description = valueKind(field(raw.value, PropDescription))
			format = valueKind(field(raw.value, PropFormat))
		}

		switch description {
		case "", "null":
			warnings = append(warnings, Warning{
				File:    p.Path,
				Message: fmt.Sprintf("Parameter '%s' from properties file %s is missing property 'description'", raw.name, p.Path),
			})
		case "string":
		default:
			warnings = append(warnings, Warning{
				File:    p.Path,
				Message: fmt.Sprintf("Parameter '%s' from properties file %s has incorrectly typed property 'description' (expected string)", raw.name, p.Path),
			})
		}

		if format != "" && format != "null" && format != "string" {
			warnings = append(warnings, Warning{
				File:    p.Path,
				Message: fmt.Sprintf("Parameter '%s' from properties file %s has incorrectly typed property 'format' (expected string)", raw.name, p.Path),
			})
		}
	}

	return warnings
}

// checkProperty returns a warning when a property is missing (and required)
// or has an unexpected type.
func checkProperty(p *Properties, rule propertyRule) (Warning, bool) {
	typ := valueKind(p.fields[rule.name])
	if typ == "" || typ == "null" {
		if rule.required {
			return Warning{
				File:    p.Path,
				Message: fmt.Sprintf("Missing property '%s' in properties file %s", rule.name, p.Path),
			}, false
		}
		return Warning{}, true
	}

	for _, want := range rule.types {
		if typ == want {
			return Warning{}, true
		}
	}
	return Warning{
		File: p.Path,
		Message: fmt.Sprintf("Property '%s' is incorrect type (expected %s) in properties file %s",
			rule.name, strings.Join(rule.types, "|"), p.Path),
	}, false
}

func extOf(path string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		return path[i:]
	}
	return ""
}
