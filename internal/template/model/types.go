package model

import "gopkg.in/yaml.v3"

// File name conventions shared by discovery, properties loading and output.
const (
	// PropertiesInfix separates a template base name from the properties extension
	// (e.g. build.yml -> build.properties.yml).
	PropertiesInfix = ".properties"
	// DocExtension is appended to a template path to form its document path.
	DocExtension = ".md"
	// IndexFile is the name of the generated index document.
	IndexFile = "index.md"
)

// TemplateExtensions are the file extensions treated as pipeline templates.
var TemplateExtensions = []string{".yml", ".yaml"}

// PropertiesExtensions are the properties file extensions in lookup order.
var PropertiesExtensions = []string{".yml", ".yaml", ".json"}

// Kind is the structural category a template instantiates.
type Kind string

const (
	// KindNone means no steps, jobs, stages or variables block is present.
	KindNone Kind = ""
	// KindSteps is a steps template.
	KindSteps Kind = "steps"
	// KindJobs is a jobs template.
	KindJobs Kind = "jobs"
	// KindStages is a stages template.
	KindStages Kind = "stages"
	// KindVariables is a variables template.
	KindVariables Kind = "variables"
)

// String returns the kind name, or "none".
func (k Kind) String() string {
	if k == KindNone {
		return "none"
	}
	return string(k)
}

// ParameterType is the declared type of a template parameter.
type ParameterType string

const (
	ParamTypeString         ParameterType = "string"
	ParamTypeNumber         ParameterType = "number"
	ParamTypeBoolean        ParameterType = "boolean"
	ParamTypeObject         ParameterType = "object"
	ParamTypeStep           ParameterType = "step"
	ParamTypeStepList       ParameterType = "stepList"
	ParamTypeJob            ParameterType = "job"
	ParamTypeJobList        ParameterType = "jobList"
	ParamTypeDeployment     ParameterType = "deployment"
	ParamTypeDeploymentList ParameterType = "deploymentList"
	ParamTypeStage          ParameterType = "stage"
	ParamTypeStageList      ParameterType = "stageList"
)

// Document is a parsed pipeline template. Each field holds the raw YAML value
// of the corresponding top-level key, or nil when the key is absent or null.
type Document struct {
	Parameters *yaml.Node
	Steps      *yaml.Node
	Jobs       *yaml.Node
	Stages     *yaml.Node
	Variables  *yaml.Node
}

// Parameter is a single template parameter declaration.
type Parameter struct {
	Name        string
	DisplayName string
	Type        ParameterType
	// Default is nil when the declaration has no default. A YAML null default
	// is a non-nil node tagged !!null.
	Default *yaml.Node
	Values  []*yaml.Node

	// Description and Format come from the properties file, not the template.
	Description string
	Format      string
}

// NormalizedTemplate is the canonical view of a template handed to the renderer.
type NormalizedTemplate struct {
	Kind       Kind
	Parameters []Parameter
}
