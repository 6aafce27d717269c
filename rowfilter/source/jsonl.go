package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rowfilter/rowfilter/rowfilter"
	"github.com/rowfilter/rowfilter/rowfilter/expr"
)

// JSONL reads one JSON object per line and infers a single-level schema from
// the values it sees: the first non-null occurrence of a field decides its
// type. Strings that parse as dates become time fields; arrays become multi
// fields typed by their first element.
type JSONL struct {
	Path   string    // "-" or "" means Reader (or stdin when Reader is nil)
	Reader io.Reader // optional explicit input
}

func NewJSONL(path string) *JSONL {
	return &JSONL{Path: path}
}

func (s *JSONL) Backend() Backend { return BackendJSONL }

func (s *JSONL) Rows(ctx context.Context) ([]Record, rowfilter.Schema, error) {
	in, closer, err := s.open()
	if err != nil {
		return nil, rowfilter.Schema{}, err
	}
	if closer != nil {
		defer closer.Close()
	}

	schema := rowfilter.Schema{Fields: map[string]rowfilter.FieldSpec{}}
	var records []Record

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, rowfilter.Schema{}, err
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, rowfilter.Schema{}, fmt.Errorf("line %d: invalid JSON: %w", lineNo, err)
		}
		for name, v := range rec {
			observeField(schema.Fields, name, v)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, rowfilter.Schema{}, err
	}

	return records, schema, nil
}

func (s *JSONL) open() (io.Reader, io.Closer, error) {
	if s.Reader != nil {
		return s.Reader, nil, nil
	}
	if s.Path == "" || s.Path == "-" {
		return os.Stdin, nil, nil
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func observeField(fields map[string]rowfilter.FieldSpec, name string, v any) {
	if v == nil {
		return
	}
	if _, seen := fields[name]; seen {
		return
	}
	if arr, ok := v.([]any); ok {
		elemType := rowfilter.FieldText
		for _, e := range arr {
			if e != nil {
				elemType = inferType(e)
				break
			}
		}
		fields[name] = rowfilter.FieldSpec{Type: elemType, Multi: true}
		return
	}
	fields[name] = rowfilter.FieldSpec{Type: inferType(v)}
}

func inferType(v any) rowfilter.FieldType {
	switch s := v.(type) {
	case bool:
		return rowfilter.FieldBool
	case json.Number, float64:
		return rowfilter.FieldNumber
	case string:
		if _, err := expr.Coerce(expr.Text(s), expr.KindTime); err == nil {
			return rowfilter.FieldTime
		}
		return rowfilter.FieldText
	default:
		return rowfilter.FieldText
	}
}
