package rowfilter

import "testing"

func TestFilterByTextAllFields(t *testing.T) {
	records := []map[string]any{
		{"Id": 1, "Name": "Hello World", "Status": "open"},
		{"Id": 2, "Name": "bye", "Status": "closed"},
		{"Id": 3, "Name": "other", "Status": "HELLOish"},
	}
	got := FilterByText(testSchema().Resolver(), records, "hello")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(got), got)
	}
	if got[0]["Id"] != 1 || got[1]["Id"] != 3 {
		t.Errorf("wrong records matched: %v", got)
	}
}

func TestFilterByTextNamedFields(t *testing.T) {
	records := []map[string]any{
		{"Name": "alpha", "Status": "beta"},
		{"Name": "beta", "Status": "alpha"},
	}
	got := FilterByText(testSchema().Resolver(), records, "alpha", "Name")
	if len(got) != 1 || got[0]["Name"] != "alpha" {
		t.Fatalf("expected only the Name match, got %v", got)
	}
}

func TestFilterByTextUnknownFieldSkipped(t *testing.T) {
	records := []map[string]any{{"Name": "alpha"}}
	got := FilterByText(testSchema().Resolver(), records, "alpha", "Nope", "Name")
	if len(got) != 1 {
		t.Fatalf("unknown field names must be skipped, got %v", got)
	}
}

func TestFilterByTextScansCollections(t *testing.T) {
	records := []map[string]any{
		{"Id": 1, "Tags": []any{"red", "green"}},
		{"Id": 2, "Tags": []any{"blue"}},
		{"Id": 3},
	}
	got := FilterByText(testSchema().Resolver(), records, "green", "Tags")
	if len(got) != 1 || got[0]["Id"] != 1 {
		t.Fatalf("expected collection element match, got %v", got)
	}
}

func TestFilterByTextNumberRendering(t *testing.T) {
	records := []map[string]any{
		{"Id": 1500},
		{"Id": 42},
	}
	got := FilterByText(testSchema().Resolver(), records, "150", "Id")
	if len(got) != 1 || got[0]["Id"] != 1500 {
		t.Fatalf("expected substring match on rendered number, got %v", got)
	}
}
