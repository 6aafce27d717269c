// Package postgres loads records from a PostgreSQL table through the pgx
// stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/rowfilter/rowfilter/rowfilter"
	"github.com/rowfilter/rowfilter/rowfilter/source"
	"github.com/rowfilter/rowfilter/rowfilter/source/sqlutil"
)

type Source struct {
	DSN   string
	Table string
}

func New(dsn, table string) *Source {
	return &Source{DSN: dsn, Table: table}
}

func (s *Source) Backend() source.Backend { return source.BackendPostgres }

func (s *Source) Rows(ctx context.Context) ([]source.Record, rowfilter.Schema, error) {
	db, err := sql.Open("pgx", s.DSN)
	if err != nil {
		return nil, rowfilter.Schema{}, err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, rowfilter.Schema{}, err
	}

	return sqlutil.LoadTable(ctx, db, s.Table, kindForColumnType)
}

func kindForColumnType(dbType string) rowfilter.FieldType {
	t := strings.ToUpper(dbType)
	switch {
	case t == "BOOL":
		return rowfilter.FieldBool
	case strings.HasPrefix(t, "TIMESTAMP") || t == "DATE":
		return rowfilter.FieldTime
	case t == "INT2" || t == "INT4" || t == "INT8" ||
		t == "FLOAT4" || t == "FLOAT8" || t == "NUMERIC":
		return rowfilter.FieldNumber
	default:
		return rowfilter.FieldText
	}
}
