package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Output streams, replaced by the command's streams before each run.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	headerColor  = color.New(color.FgMagenta)
	mutedColor   = color.New(color.FgHiBlack)
)

// Output formatting helpers

// printInfo prints an informational message
func printInfo(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintln(stdout, msg)
}

// printSuccess prints a success message
func printSuccess(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", successColor.Sprint("✓"), msg)
}

// printWarning prints a warning line to stderr
func printWarning(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stderr, "%s %s\n", warnColor.Sprint("WARN:"), msg)
}

// printErrorMsg prints an error line to stderr. Errors are never silenced.
func printErrorMsg(msg string) {
	fmt.Fprintf(stderr, "%s  %s\n", errorColor.Sprint("ERR:"), msg)
}

// printError prints an error returned by a command
func printError(err error) {
	printErrorMsg(err.Error())
}

// printHeader prints a section header
func printHeader(title string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "\n%s\n", headerColor.Sprintf("=== %s ===", title))
}

// printMuted prints a low-emphasis line
func printMuted(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintln(stdout, mutedColor.Sprint(msg))
}
