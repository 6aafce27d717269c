package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/rowfilter/rowfilter/internal/cliopt"
	"github.com/rowfilter/rowfilter/internal/cliutil"
)

func RunFields(argv []string) int {
	fs := flag.NewFlagSet("fields", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var format string
	src := cliopt.DefaultSourceOptions()
	fs.StringVar(&format, "format", "pretty", "output: json|pretty")
	cliopt.BindSourceFlags(fs, &src)
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	s, err := cliutil.ResolveSource(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	_, schema, err := s.Rows(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if cliutil.ParseOutputFormat(format) == cliutil.FormatJSON {
		cliutil.PrintJSON(os.Stdout, schema)
		return 0
	}

	names := make([]string, 0, len(schema.Fields))
	for name := range schema.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		spec := schema.Fields[name]
		if spec.Multi {
			fmt.Fprintf(os.Stdout, "%s\t%s (multi)\n", name, spec.Type)
		} else {
			fmt.Fprintf(os.Stdout, "%s\t%s\n", name, spec.Type)
		}
	}
	return 0
}
