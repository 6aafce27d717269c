package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rowfilter/rowfilter/internal/cliopt"
	"github.com/rowfilter/rowfilter/rowfilter/source"
	"github.com/rowfilter/rowfilter/rowfilter/source/postgres"
	"github.com/rowfilter/rowfilter/rowfilter/source/sqlite"
)

// OutputFormat selects how records are printed
type OutputFormat string

const (
	FormatJSON   OutputFormat = "json"
	FormatPretty OutputFormat = "pretty"
	FormatCount  OutputFormat = "count"
)

func ParseOutputFormat(s string) OutputFormat {
	switch s {
	case "pretty":
		return FormatPretty
	case "count":
		return FormatCount
	default:
		return FormatJSON
	}
}

// ResolveSource turns the shared source flags into a record source.
func ResolveSource(o cliopt.SourceOptions) (source.Source, error) {
	if o.DB == "" {
		return source.NewJSONL(o.Input), nil
	}
	if o.Table == "" {
		return nil, fmt.Errorf("--db requires --table")
	}
	switch {
	case strings.HasPrefix(o.DB, "sqlite:"):
		return sqlite.NewWithDriver(strings.TrimPrefix(o.DB, "sqlite:"), o.Table, o.Driver), nil
	case strings.HasPrefix(o.DB, "postgres:"), strings.HasPrefix(o.DB, "postgresql:"):
		return postgres.New(o.DB, o.Table), nil
	default:
		return nil, fmt.Errorf("unsupported --db value %q (want sqlite:<path> or postgres:<dsn>)", o.DB)
	}
}

// PrintJSON writes v as a single JSON line.
func PrintJSON(w io.Writer, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, "encode error: %v\n", err)
	}
}

// PrintRecords writes records in the selected format.
func PrintRecords(w io.Writer, format OutputFormat, records []source.Record) {
	switch format {
	case FormatCount:
		fmt.Fprintln(w, len(records))
	case FormatPretty:
		for _, rec := range records {
			b, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				continue
			}
			fmt.Fprintln(w, string(b))
		}
	default:
		for _, rec := range records {
			PrintJSON(w, rec)
		}
	}
}
