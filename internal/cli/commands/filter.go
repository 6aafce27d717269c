package commands

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rowfilter/rowfilter/internal/cliopt"
	"github.com/rowfilter/rowfilter/internal/cliutil"
	"github.com/rowfilter/rowfilter/rowfilter"
)

func RunFilter(argv []string) int {
	fs := flag.NewFlagSet("filter", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var expression, format string
	src := cliopt.DefaultSourceOptions()
	fs.StringVar(&expression, "expr", "", "filter expression")
	fs.StringVar(&expression, "e", "", "filter expression (shorthand)")
	fs.StringVar(&format, "format", "json", "output: json|pretty|count")
	cliopt.BindSourceFlags(fs, &src)
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if expression == "" {
		fmt.Fprintln(os.Stderr, "missing --expr")
		return 2
	}

	s, err := cliutil.ResolveSource(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	records, schema, err := s.Rows(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	pred, err := rowfilter.Compile(expression, schema.Resolver())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	matched := rowfilter.Filter(pred, records)
	cliutil.PrintRecords(os.Stdout, cliutil.ParseOutputFormat(format), matched)
	return 0
}
