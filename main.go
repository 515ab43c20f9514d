// The main package for the boewatcher executable.
package main

import (
	"github.com/fransm/boe-watcher/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
