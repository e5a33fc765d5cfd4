package main

import (
	"github.com/tacogips/pipelinedoc/internal/cli"
)

func main() {
	// Execute the root command
	cli.Execute()
}
