package main

import (
	"os"

	"github.com/stackpng/stackpng/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
