package main

import (
	"os"

	"github.com/solatis/degreeaudit/cmd/degreeaudit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
