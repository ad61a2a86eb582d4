// Command brp-bridge is the cobra-based entry point wiring the format
// discovery/mutation engine to a running game engine instance, grounded
// on the pack's gnmidiff-style cobra root command.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
