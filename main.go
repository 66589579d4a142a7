// ABOUTME: Entry point for the progress terminal client
// ABOUTME: Runs the interactive UI or one of the scripting subcommands

package main

import (
	"fmt"
	"os"

	"github.com/markalston/course-progress/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
