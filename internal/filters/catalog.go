package filters

import (
	"time"

	"github.com/ppiankov/qfilter/internal/model"
	"github.com/ppiankov/qfilter/internal/query"
)

// Result filter kinds
const (
	KindLang       = "lang"
	KindRepo       = "repo"
	KindFile       = "file"
	KindUtility    = "utility"
	KindAuthor     = "author"
	KindCommitDate = "commit date"
	KindSymbolType = "symbol type"
)

var symbolKinds = []struct {
	label string
	kind  string
}{
	{"Function", "function"},
	{"Method", "method"},
	{"Class", "class"},
	{"Interface", "interface"},
	{"Struct", "struct"},
	{"Enum", "enum"},
	{"Constant", "constant"},
	{"Variable", "variable"},
	{"Field", "field"},
	{"Property", "property"},
	{"Module", "module"},
	{"Namespace", "namespace"},
	{"Package", "package"},
	{"Type parameter", "type-parameter"},
}

// SymbolKindFilters returns the select:symbol.<kind> filters offered for
// symbol searches
func SymbolKindFilters() []model.ResultFilter {
	out := make([]model.ResultFilter, 0, len(symbolKinds))
	for _, sk := range symbolKinds {
		out = append(out, model.ResultFilter{
			Value: query.FormatFilter(string(query.FieldSelect), "symbol."+sk.kind),
			Label: sk.label,
			Kind:  KindSymbolType,
		})
	}
	return out
}

// CommitDateFilters returns the after:/before: filters offered for commit
// searches, anchored at now
func CommitDateFilters(now time.Time) []model.ResultFilter {
	day := func(t time.Time) string { return t.Format("2006-01-02") }

	after := string(query.FieldAfter)
	before := string(query.FieldBefore)
	return []model.ResultFilter{
		{Label: "Last 24 hours", Value: query.FormatFilter(after, day(now.AddDate(0, 0, -1))), Kind: KindCommitDate},
		{Label: "Last week", Value: query.FormatFilter(after, day(now.AddDate(0, 0, -7))), Kind: KindCommitDate},
		{Label: "Last month", Value: query.FormatFilter(after, day(now.AddDate(0, -1, 0))), Kind: KindCommitDate},
		{Label: "Last 3 months", Value: query.FormatFilter(after, day(now.AddDate(0, -3, 0))), Kind: KindCommitDate},
		{Label: "Last year", Value: query.FormatFilter(after, day(now.AddDate(-1, 0, 0))), Kind: KindCommitDate},
		{Label: "More than a year ago", Value: query.FormatFilter(before, day(now.AddDate(-1, 0, 0))), Kind: KindCommitDate},
	}
}
