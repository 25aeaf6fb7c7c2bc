// ./main.go
package main

import (
	"github.com/pabslabs/pabsim/cmd"
)

// main is the entry point for the pabsim application.
func main() {
	// Execute the root command defined in the cmd package.
	// This handles all command-line parsing, configuration, and execution.
	cmd.Execute()
}
