package main

import (
	"fmt"
	"os"

	"github.com/overlink/overlink/cmd/overlink"
	"github.com/overlink/overlink/pkg/style"
)

func main() {
	rootCmd := overlink.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		errorStyle := style.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))

		// Show the full help for the command that failed
		fmt.Fprintln(os.Stderr)
		_ = rootCmd.Help()

		os.Exit(1)
	}
}
