package cli

import (
	"github.com/AlecAivazis/survey/v2"

	"github.com/tacogips/pipelinedoc/internal/app"
)

// surveyPrompter asks questions on the terminal.
type surveyPrompter struct{}

var _ app.Prompter = (*surveyPrompter)(nil)

// newPrompter returns the prompter for properties init. With yes set every
// question is answered with its default.
func newPrompter(yes bool) app.Prompter {
	if yes {
		return app.DefaultsPrompter{}
	}
	return &surveyPrompter{}
}

// Input prompts for a line of text.
func (p *surveyPrompter) Input(message, def string) (string, error) {
	var result string

	prompt := &survey.Input{
		Message: message,
		Default: def,
		Help:    helpFor(message),
	}

	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// helpFor returns the '?' help text of a properties question.
func helpFor(message string) string {
	switch message {
	case "Name":
		return "Document title, shown as the first heading"
	case "Description":
		return "Summary shown below the title (defaults to the template's leading comment)"
	case "Version":
		return "Shown next to the title as (vX)"
	case "Category (optional)":
		return "Groups the document on the index page"
	}
	return "Shown in the parameters table; leave empty to fill in later"
}
