package main

import (
	"os"

	"github.com/finxan/ai-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
