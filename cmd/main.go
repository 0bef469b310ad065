package main

import (
	"os"

	forgecmd "github.com/soundprediction/forge/cmd/forge"
)

func main() {
	if err := forgecmd.Execute(); err != nil {
		os.Exit(1)
	}
}
