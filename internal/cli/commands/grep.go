package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rowfilter/rowfilter/internal/cliopt"
	"github.com/rowfilter/rowfilter/internal/cliutil"
	"github.com/rowfilter/rowfilter/rowfilter"
)

// RunGrep is the text-search convenience path: no expression, just a
// case-insensitive substring scan over some or all fields.
func RunGrep(argv []string) int {
	fs := flag.NewFlagSet("grep", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var fieldList, format string
	src := cliopt.DefaultSourceOptions()
	fs.StringVar(&fieldList, "fields", "", "comma-separated field names (default: all)")
	fs.StringVar(&format, "format", "json", "output: json|pretty|count")
	cliopt.BindSourceFlags(fs, &src)
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rowfilter grep [flags] TEXT")
		return 2
	}
	text := fs.Arg(0)

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

	var fields []string
	if fieldList != "" {
		for _, f := range strings.Split(fieldList, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	matched := rowfilter.FilterByText(schema.Resolver(), records, text, fields...)
	cliutil.PrintRecords(os.Stdout, cliutil.ParseOutputFormat(format), matched)
	return 0
}
