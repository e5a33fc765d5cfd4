package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tacogips/pipelinedoc/internal/app"
	"github.com/tacogips/pipelinedoc/internal/config"
	"github.com/tacogips/pipelinedoc/internal/watch"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [patterns...]",
	Short: "Regenerate documentation whenever templates change",
	Long: `Generate documentation once, then watch the template directories and
regenerate whenever a template or properties file is created, written,
renamed or removed. Stop with Ctrl+C.

Accepts the same patterns and flags as generate.

Examples:
  pipelinedoc watch
  pipelinedoc watch "templates/**" --debounce 1s`,
	RunE: runWatch,
}

// Watch command flags
var (
	watchDir     string
	watchNoIndex bool
)

func init() {
	addGenerateFlags(watchCmd, &watchDir, &watchNoIndex)
	watchCmd.Flags().Duration(FlagDebounce, watch.DefaultDebounce, DescDebounce)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadGenerateConfig(cmd, watchNoIndex, flagBinding{FlagDebounce, config.KeyWatchDebounce})
	if err != nil {
		return err
	}

	printInfo(fmt.Sprintf("Watching %s (press Ctrl+C to stop)", watchDir))

	initial := true
	return app.Watch(cmd.Context(), app.WatchOptions{
		GenerateOptions: app.GenerateOptions{
			Config:   cfg,
			BaseDir:  watchDir,
			Patterns: args,
		},
		OnGenerate: func(result *app.GenerateResult, err error) {
			first := initial
			initial = false
			if err != nil {
				// The initial failure is returned by Watch.
				if !first {
					printError(err)
				}
				return
			}
			printMuted(time.Now().Format(time.TimeOnly))
			// A failed run is reported and watching continues.
			if err := reportGenerate(result, false); err != nil {
				printError(err)
			}
		},
	})
}
