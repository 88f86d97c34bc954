package main

import (
	"os"

	"github.com/micahkepe/jsongrep/internal/cli"
)

func main() {
	os.Exit(cli.New().Run(os.Args))
}
