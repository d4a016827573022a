package filters

import "github.com/ppiankov/qfilter/internal/query"

// Editor reads and rewrites the type: filter of search queries. It keeps no
// state between calls: the active type is always recomputed from the query
// string, so it is safe for concurrent use.
type Editor struct {
	scanner query.Scanner
}

// NewEditor creates an editor scanning with s, or query.DefaultScanner if s
// is nil
func NewEditor(s query.Scanner) *Editor {
	if s == nil {
		s = query.DefaultScanner
	}
	return &Editor{scanner: s}
}

// typeFilters returns the type: filters of q. A query that does not scan
// has none.
func (e *Editor) typeFilters(q string) []query.Token {
	scanned, err := e.scanner.Scan(q)
	if err != nil {
		return nil
	}
	return query.FindFilters(scanned, query.FieldType)
}

// ResolveActiveType returns the result type the query asks for. Queries that
// do not scan, and queries with zero or several type: filters, are Code.
func (e *Editor) ResolveActiveType(q string) SearchFilterType {
	typeFilters := e.typeFilters(q)
	if len(typeFilters) != 1 {
		return Code
	}
	return ResolveFilterTypeValue(typeFilters[0].FilterText())
}

// ApplyTypeChange returns q rewritten to ask for newType. All existing type:
// filters are removed; for any type but Code a single type: filter is written
// where the first one stood, or appended if there was none. A query that
// does not scan has no type filters, so it only ever gets one appended.
func (e *Editor) ApplyTypeChange(q string, newType SearchFilterType) string {
	typeFilters := e.typeFilters(q)

	value := ToSearchSyntaxTypeFilter(newType)
	if len(typeFilters) == 0 {
		if value == "" {
			return q
		}
		return query.AppendFilter(q, string(query.FieldType), value)
	}

	first := typeFilters[0]
	q = query.OmitFilters(q, typeFilters[1:])
	if value == "" {
		return query.OmitFilter(q, first)
	}
	return query.ReplaceToken(q, first, query.FormatFilter(string(query.FieldType), value))
}
