package main

import (
	"os"

	"gocst/cmd/castdump/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
