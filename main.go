package main

import (
	"os"

	"github.com/voluntree/voluntree/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
