package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/rowfilter/rowfilter/internal/cliutil"
	"github.com/rowfilter/rowfilter/rowfilter"
)

func RunCheck(argv []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var expression, schemaPath string
	fs.StringVar(&expression, "expr", "", "filter expression")
	fs.StringVar(&expression, "e", "", "filter expression (shorthand)")
	fs.StringVar(&schemaPath, "schema", "", "schema JSON file")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if expression == "" || schemaPath == "" {
		fmt.Fprintln(os.Stderr, "missing --expr or --schema")
		return 2
	}

	data, err := os.ReadFile(schemaPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	schema, err := rowfilter.ParseSchema(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if _, err := rowfilter.Compile(expression, schema.Resolver()); err != nil {
		cliutil.PrintJSON(os.Stdout, checkResult{OK: false, Error: err.Error()})
		return 1
	}
	cliutil.PrintJSON(os.Stdout, checkResult{OK: true})
	return 0
}

type checkResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
