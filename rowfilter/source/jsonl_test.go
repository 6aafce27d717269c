package source

import (
	"context"
	"strings"
	"testing"

	"github.com/rowfilter/rowfilter/rowfilter"
)

func TestJSONLRowsAndInference(t *testing.T) {
	input := strings.Join([]string{
		`{"Id": 1, "Name": "hello", "Active": true, "Created": "2024-01-15", "Tags": ["a", "b"]}`,
		``,
		`{"Id": 2, "Name": "bye", "Score": 1.5}`,
	}, "\n")

	src := &JSONL{Reader: strings.NewReader(input)}
	records, schema, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	want := map[string]rowfilter.FieldSpec{
		"Id":      {Type: rowfilter.FieldNumber},
		"Name":    {Type: rowfilter.FieldText},
		"Active":  {Type: rowfilter.FieldBool},
		"Created": {Type: rowfilter.FieldTime},
		"Tags":    {Type: rowfilter.FieldText, Multi: true},
		"Score":   {Type: rowfilter.FieldNumber},
	}
	if len(schema.Fields) != len(want) {
		t.Fatalf("expected %d fields, got %v", len(want), schema.Fields)
	}
	for name, spec := range want {
		if got := schema.Fields[name]; got != spec {
			t.Errorf("field %s: expected %+v, got %+v", name, spec, got)
		}
	}
}

func TestJSONLFirstOccurrenceWins(t *testing.T) {
	input := `{"X": 1}` + "\n" + `{"X": "text now"}`
	src := &JSONL{Reader: strings.NewReader(input)}
	_, schema, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schema.Fields["X"].Type != rowfilter.FieldNumber {
		t.Errorf("first non-null occurrence must decide the type, got %v", schema.Fields["X"].Type)
	}
}

func TestJSONLNullDoesNotDecideType(t *testing.T) {
	input := `{"X": null}` + "\n" + `{"X": "hello"}`
	src := &JSONL{Reader: strings.NewReader(input)}
	_, schema, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schema.Fields["X"].Type != rowfilter.FieldText {
		t.Errorf("null must be skipped during inference, got %v", schema.Fields["X"].Type)
	}
}

func TestJSONLInvalidLineReportsNumber(t *testing.T) {
	input := `{"X": 1}` + "\n" + `{oops`
	src := &JSONL{Reader: strings.NewReader(input)}
	_, _, err := src.Rows(context.Background())
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line-numbered error, got %v", err)
	}
}

func TestJSONLFiltersWithInferredSchema(t *testing.T) {
	input := strings.Join([]string{
		`{"Id": 50, "Name": "hello"}`,
		`{"Id": 150, "Name": "say hello"}`,
		`{"Id": 200, "Name": "bye"}`,
	}, "\n")
	src := &JSONL{Reader: strings.NewReader(input)}
	records, schema, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := rowfilter.Compile("[Id] >= 100 && [Name] like '%hello%'", schema.Resolver())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := rowfilter.Filter(p, records)
	if len(got) != 1 || got[0]["Name"] != "say hello" {
		t.Fatalf("expected only the second record, got %v", got)
	}
}

func TestJSONLCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &JSONL{Reader: strings.NewReader(`{"X": 1}`)}
	if _, _, err := src.Rows(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
