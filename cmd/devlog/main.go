// main is the entrypoint for the devlog CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/devlog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
