package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rowfilter/rowfilter/rowfilter"
	"github.com/rowfilter/rowfilter/rowfilter/source/sqlite"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE items (
			id INTEGER PRIMARY KEY,
			name TEXT,
			priority INTEGER,
			done BOOLEAN,
			due DATE
		)`,
		`INSERT INTO items (id, name, priority, done, due) VALUES
			(1, 'first task', 3, 0, '2025-01-01'),
			(2, 'urgent work', 10, 1, '2025-02-01'),
			(3, 'home chores', 7, 0, '2024-12-31'),
			(4, NULL, NULL, 0, NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec: %v", err)
		}
	}
	return dbPath
}

func idsOf(records []map[string]any, p rowfilter.Predicate) []int64 {
	var out []int64
	for _, r := range records {
		if p(r) {
			out = append(out, r["id"].(int64))
		}
	}
	return out
}

func TestRowsSchemaFromColumnTypes(t *testing.T) {
	src := sqlite.New(newTestDB(t), "items")
	records, schema, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	want := map[string]rowfilter.FieldType{
		"id":       rowfilter.FieldNumber,
		"name":     rowfilter.FieldText,
		"priority": rowfilter.FieldNumber,
		"done":     rowfilter.FieldBool,
		"due":      rowfilter.FieldTime,
	}
	for name, typ := range want {
		spec, ok := schema.Get(name)
		if !ok || spec.Type != typ {
			t.Errorf("column %s: expected %s, got %+v ok=%v", name, typ, spec, ok)
		}
	}
}

func TestFilterLoadedRows(t *testing.T) {
	src := sqlite.New(newTestDB(t), "items")
	records, schema, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	resolver := schema.Resolver()

	compile := func(expression string) rowfilter.Predicate {
		t.Helper()
		p, err := rowfilter.Compile(expression, resolver)
		if err != nil {
			t.Fatalf("compile %s: %v", expression, err)
		}
		return p
	}

	if got := idsOf(records, compile("[priority] > 5")); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("priority > 5: got %v want [2 3]", got)
	}
	if got := idsOf(records, compile("[done] == 'false'")); len(got) != 3 {
		t.Errorf("done == 'false': got %v want three rows", got)
	}
	if got := idsOf(records, compile("[due] > '2025-01-15'")); len(got) != 1 || got[0] != 2 {
		t.Errorf("due > 2025-01-15: got %v want [2]", got)
	}
	if got := idsOf(records, compile("[name] like '%work%'")); len(got) != 1 || got[0] != 2 {
		t.Errorf("name like work: got %v want [2]", got)
	}
	if got := idsOf(records, compile("[name] is null")); len(got) != 1 || got[0] != 4 {
		t.Errorf("name is null: got %v want [4]", got)
	}
	if got := idsOf(records, compile("[priority] between 3 and 7")); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("priority between 3 and 7: got %v want [1 3]", got)
	}
}

func TestRowsRejectsBadTable(t *testing.T) {
	src := sqlite.New(newTestDB(t), "no_such_table")
	if _, _, err := src.Rows(context.Background()); err == nil {
		t.Fatal("expected error for missing table")
	}

	src = sqlite.New(newTestDB(t), "items; DROP TABLE items")
	if _, _, err := src.Rows(context.Background()); err == nil {
		t.Fatal("expected error for invalid table name")
	}
}
