package main

import (
	"os"

	skeincmder "github.com/skeinhq/skein/cmd/skein"
)

func main() {
	cmd := skeincmder.NewSkeinCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
