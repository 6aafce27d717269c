// Package source loads records for filtering from JSON-lines streams or
// database tables. Every source yields the records together with the schema
// describing their fields, ready to feed the filter engine's resolver.
package source

import (
	"context"

	"github.com/rowfilter/rowfilter/rowfilter"
)

// Record is a single flat record as loaded from a source.
type Record = map[string]any

// Backend identifies a source implementation
type Backend string

const (
	BackendJSONL    Backend = "jsonl"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Source loads records and their schema
type Source interface {
	Backend() Backend

	// Rows loads all records along with the schema describing them.
	Rows(ctx context.Context) ([]Record, rowfilter.Schema, error)
}
