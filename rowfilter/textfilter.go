package rowfilter

import "strings"

// FilterByText returns the records where any of the named fields contains
// text, case-insensitively. When no field names are given, every field the
// resolver reports is scanned. This is a best-effort convenience path: field
// names the resolver does not expose are silently skipped, and no expression
// parsing is involved.
func FilterByText[R any](resolver FieldResolver, records []R, text string, fieldNames ...string) []R {
	if len(fieldNames) == 0 {
		fieldNames = resolver.Fields()
	}

	fields := make([]Field, 0, len(fieldNames))
	for _, name := range fieldNames {
		if f, ok := resolver.Lookup(name); ok {
			fields = append(fields, f)
		}
	}

	needle := strings.ToLower(text)
	var out []R
	for _, r := range records {
		if recordContains(fields, r, needle) {
			out = append(out, r)
		}
	}
	return out
}

func recordContains(fields []Field, record any, needle string) bool {
	for _, f := range fields {
		if f.Collection {
			for _, v := range f.Elems(record) {
				if strings.Contains(strings.ToLower(v.String()), needle) {
					return true
				}
			}
			continue
		}
		v := f.Value(record)
		if v.IsNull() {
			continue
		}
		if strings.Contains(strings.ToLower(v.String()), needle) {
			return true
		}
	}
	return false
}
