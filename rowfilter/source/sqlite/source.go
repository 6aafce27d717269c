// Package sqlite loads records from a SQLite table through database/sql.
// The driver is chosen by name so both the pure-Go "sqlite" driver and the
// cgo "sqlite3" driver work.
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rowfilter/rowfilter/rowfilter"
	"github.com/rowfilter/rowfilter/rowfilter/source"
	"github.com/rowfilter/rowfilter/rowfilter/source/sqlutil"
)

type Source struct {
	Path       string
	Table      string
	DriverName string
}

func New(path, table string) *Source {
	return &Source{Path: path, Table: table, DriverName: "sqlite"}
}

func NewWithDriver(path, table, driver string) *Source {
	return &Source{Path: path, Table: table, DriverName: driver}
}

func (s *Source) Backend() source.Backend { return source.BackendSQLite }

func (s *Source) Rows(ctx context.Context) ([]source.Record, rowfilter.Schema, error) {
	db, err := s.connect(ctx)
	if err != nil {
		return nil, rowfilter.Schema{}, err
	}
	defer db.Close()

	return sqlutil.LoadTable(ctx, db, s.Table, kindForColumnType)
}

func (s *Source) connect(ctx context.Context) (*sql.DB, error) {
	dsn := s.Path
	if !strings.Contains(dsn, "?") {
		dsn = dsn + "?_busy_timeout=5000"
	} else {
		dsn = dsn + "&_busy_timeout=5000"
	}
	db, err := sql.Open(s.DriverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// kindForColumnType follows SQLite's type affinity rules.
func kindForColumnType(dbType string) rowfilter.FieldType {
	t := strings.ToUpper(dbType)
	switch {
	case strings.Contains(t, "BOOL"):
		return rowfilter.FieldBool
	case strings.Contains(t, "DATE") || strings.Contains(t, "TIME"):
		return rowfilter.FieldTime
	case strings.Contains(t, "INT"),
		strings.Contains(t, "REAL"),
		strings.Contains(t, "FLOA"),
		strings.Contains(t, "DOUB"),
		strings.Contains(t, "NUMERIC"),
		strings.Contains(t, "DECIMAL"):
		return rowfilter.FieldNumber
	default:
		return rowfilter.FieldText
	}
}
