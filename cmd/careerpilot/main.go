package main

import (
	"fmt"
	"os"

	"github.com/diogo/careerpilot/internal/commands"
	"github.com/diogo/careerpilot/internal/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	commands.Execute()
}
