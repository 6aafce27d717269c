// Package sqlutil holds the table-loading plumbing shared by the SQL-backed
// sources.
package sqlutil

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/rowfilter/rowfilter/rowfilter"
	"github.com/rowfilter/rowfilter/rowfilter/source"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// QuoteIdent validates and quotes a table identifier. Only plain
// identifiers are accepted; everything else is rejected rather than escaped.
func QuoteIdent(name string) (string, error) {
	if !identRe.MatchString(name) {
		return "", fmt.Errorf("invalid table name: %q", name)
	}
	return `"` + name + `"`, nil
}

// LoadTable reads every row of the table into records and derives the schema
// from the driver-reported column types through kindFor.
func LoadTable(ctx context.Context, db *sql.DB, table string, kindFor func(dbType string) rowfilter.FieldType) ([]source.Record, rowfilter.Schema, error) {
	ident, err := QuoteIdent(table)
	if err != nil {
		return nil, rowfilter.Schema{}, err
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+ident)
	if err != nil {
		return nil, rowfilter.Schema{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, rowfilter.Schema{}, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, rowfilter.Schema{}, err
	}

	fields := make(map[string]rowfilter.FieldSpec, len(cols))
	for i, ct := range types {
		fields[cols[i]] = rowfilter.FieldSpec{Type: kindFor(ct.DatabaseTypeName())}
	}
	schema := rowfilter.Schema{Fields: fields}

	var records []source.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, rowfilter.Schema{}, err
		}
		rec := make(source.Record, len(cols))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			rec[cols[i]] = v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, rowfilter.Schema{}, err
	}

	return records, schema, nil
}
