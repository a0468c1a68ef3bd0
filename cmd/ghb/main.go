package main

import (
	"os"

	"github.com/robby/ghb/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
