// Command flashlight plays audio files in the terminal and drives a
// "music flashlight" from what is playing: a hue that drifts with the
// spectral balance and a torch level that follows the volume.
//
// Usage:
//
//	flashlight [flags] <file|directory|playlist>...
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
