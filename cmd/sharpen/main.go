// Sharpen - rewrite prompts for a target LLM
package main

import (
	"os"

	"github.com/HartBrook/sharpen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
