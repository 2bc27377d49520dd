package main

import (
	"os"

	"github.com/voltride/fleetsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
