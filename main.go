// The main package for the fuelcrawler executable.
package main

import (
	"github.com/petrolmate/crawler/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
