package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/pipelinedoc/internal/app"
)

// propertiesCmd represents the properties command
var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "Template properties file management",
	Long: `Manage the properties files that hold template documentation metadata.

A template <name>.yml is described by <name>.properties.yml (or .yaml or
.json) next to it: name, description, version, category, deprecation,
parameter descriptions and usage examples.`,
}

// propertiesInitCmd represents the properties init command
var propertiesInitCmd = &cobra.Command{
	Use:   "init <template>",
	Short: "Create a properties file for a template",
	Long: `Parse a template and interactively create <template>.properties.yml with
its name, description, version, category and one description per declared
parameter.

Examples:
  pipelinedoc properties init templates/build.yml
  pipelinedoc properties init templates/build.yml --yes
  pipelinedoc properties init templates/build.yml --force`,
	Args: cobra.ExactArgs(1),
	RunE: runPropertiesInit,
}

// Properties init command flags
var (
	propertiesInitYes   bool
	propertiesInitForce bool
)

func init() {
	propertiesCmd.AddCommand(propertiesInitCmd)

	propertiesInitCmd.Flags().BoolVarP(&propertiesInitYes, FlagYes, "y", false, DescYes)
	propertiesInitCmd.Flags().BoolVarP(&propertiesInitForce, FlagForce, "f", false, DescForce)
}

func runPropertiesInit(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd, nil); err != nil {
		return err
	}

	if propertiesInitForce {
		printWarning("Force mode enabled - an existing properties file will be overwritten")
	}

	result, err := app.InitProperties(cmd.Context(), app.InitPropertiesOptions{
		Template: args[0],
		Force:    propertiesInitForce,
		Prompter: newPrompter(propertiesInitYes),
	})
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		printWarning(w.Message)
	}
	printSuccess(fmt.Sprintf("Created: %s", displayPath(result.Path)))
	return nil
}
