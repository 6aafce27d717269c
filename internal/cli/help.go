package cli

import (
	"fmt"
	"io"
)

func PrintRootHelp(w io.Writer) {
	fmt.Fprint(w, `rowfilter - filter records with SQL-like expressions

Usage:
  rowfilter <command> [flags]

Commands:
  filter   apply a filter expression to records
  check    validate an expression against a schema
  fields   show the schema discovered from a source
  grep     case-insensitive substring search across fields
  help     show this help

Record sources (filter, fields, grep):
  --input file.jsonl        JSON-lines file, - for stdin (default)
  --db sqlite:<path>        SQLite database (--table required)
  --db postgres:<dsn>       PostgreSQL database (--table required)

Examples:
  rowfilter filter -e "[Id] >= 100 && [Name] like '%hello%'" --input people.jsonl
  rowfilter filter -e "[Age] between 18 and 30" --db sqlite:app.db --table users
  rowfilter check -e "[Status] in {'A','B'}" --schema schema.json
  rowfilter grep --fields Name,Comment --input people.jsonl hello
`)
}
