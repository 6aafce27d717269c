package main

import (
	"os"

	_ "modernc.org/sqlite"

	"github.com/rowfilter/rowfilter/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
