package filters

import (
	"strings"
	"time"

	"github.com/ppiankov/qfilter/internal/model"
	"github.com/ppiankov/qfilter/internal/query"
)

// Section is one group of filters in the sidebar
type Section struct {
	ID         string             `json:"id" yaml:"id"`
	Title      string             `json:"title" yaml:"title"`
	Kinds      []query.FilterType `json:"kinds" yaml:"kinds"`
	ResultKind string             `json:"resultKind" yaml:"result_kind"` // Result filter kind the items come from
	Exclusive  bool               `json:"exclusive" yaml:"exclusive"`    // Selecting an item replaces other filters of these kinds
	Static     bool               `json:"static" yaml:"static"`          // Items come from a fixed catalogue
}

// Item is a selectable filter in a section
type Item struct {
	model.ResultFilter `yaml:",inline"`
	Selected           bool `json:"selected" yaml:"selected"`
}

// SectionView is a section populated for one query
type SectionView struct {
	Section `yaml:",inline"`
	Items   []Item `json:"items" yaml:"items"`
}

// TypeOption is one entry in the result type list
type TypeOption struct {
	Type     SearchFilterType `json:"type" yaml:"type"`
	Label    string           `json:"label" yaml:"label"`
	Selected bool             `json:"selected" yaml:"selected"`
}

// Sidebar is everything the filters panel shows for a query
type Sidebar struct {
	Query    string           `json:"query" yaml:"query"`
	Type     SearchFilterType `json:"activeType" yaml:"active_type"`
	Types    []TypeOption     `json:"types" yaml:"types"`
	Sections []SectionView    `json:"sections" yaml:"sections"`
}

// SidebarOptions narrows what the sidebar shows
type SidebarOptions struct {
	FilterQuery string    // Case-insensitive label filter applied to every section
	Now         time.Time // Anchor for commit date filters; zero means time.Now
}

var (
	symbolSection = Section{ID: "symbol-kind", Title: "By symbol type", Kinds: []query.FilterType{query.FieldSelect}, ResultKind: KindSymbolType, Exclusive: true, Static: true}
	authorSection = Section{ID: "author", Title: "By author", Kinds: []query.FilterType{query.FieldAuthor}, ResultKind: KindAuthor, Exclusive: true}
	dateSection   = Section{ID: "commit-date", Title: "By commit date", Kinds: []query.FilterType{query.FieldAfter, query.FieldBefore}, ResultKind: KindCommitDate, Exclusive: true, Static: true}
	langSection   = Section{ID: "lang", Title: "By language", Kinds: []query.FilterType{query.FieldLang}, ResultKind: KindLang}
	repoSection   = Section{ID: "repo", Title: "By repository", Kinds: []query.FilterType{query.FieldRepo}, ResultKind: KindRepo}
	fileSection   = Section{ID: "file", Title: "By file", Kinds: []query.FilterType{query.FieldFile}, ResultKind: KindFile}
	utilSection   = Section{ID: "utility", Title: "Utility", Kinds: []query.FilterType{query.FieldArchived, query.FieldFork}, ResultKind: KindUtility}
)

// Sections returns the sidebar sections shown for a result type, in order
func Sections(t SearchFilterType) []Section {
	var out []Section
	switch t {
	case Symbols:
		out = append(out, symbolSection)
	case Commits:
		out = append(out, authorSection, dateSection)
	}
	return append(out, langSection, repoSection, fileSection, utilSection)
}

// SectionByID looks up a section by its ID
func SectionByID(id string) (Section, bool) {
	for _, s := range []Section{symbolSection, authorSection, dateSection, langSection, repoSection, fileSection, utilSection} {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

var typeLabels = map[SearchFilterType]string{
	Code:         "Code",
	Repositories: "Repositories",
	Paths:        "Paths",
	Symbols:      "Symbols",
	Commits:      "Commits",
	Diffs:        "Diffs",
}

// Sidebar computes the filters panel for q from the current results
func (e *Editor) Sidebar(q string, matches []model.SearchMatch, resultFilters []model.ResultFilter, opts SidebarOptions) Sidebar {
	active := e.ResolveActiveType(q)
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	sb := Sidebar{Query: q, Type: active}
	for _, t := range AllTypes {
		sb.Types = append(sb.Types, TypeOption{Type: t, Label: typeLabels[t], Selected: t == active})
	}

	tokens, err := e.scanner.Scan(q)
	if err != nil {
		tokens = nil
	}

	for _, sec := range Sections(active) {
		var source []model.ResultFilter
		switch sec.ID {
		case symbolSection.ID:
			source = SymbolKindFilters()
		case authorSection.ID:
			source = GenerateAuthorFilters(matches)
		case dateSection.ID:
			source = CommitDateFilters(now)
		default:
			for _, f := range resultFilters {
				if f.Kind == sec.ResultKind {
					source = append(source, f)
				}
			}
		}
		sb.Sections = append(sb.Sections, populate(sec, source, tokens, opts.FilterQuery))
	}
	return sb
}

// populate marks items present in the query as selected. Filters in the query
// that the results did not suggest are listed first so they can be removed.
func populate(sec Section, source []model.ResultFilter, tokens []query.Token, filterQuery string) SectionView {
	view := SectionView{Section: sec}

	inQuery := make(map[string]bool)
	var present []query.Token
	for _, k := range sec.Kinds {
		for _, tok := range query.FindFilters(tokens, k) {
			present = append(present, tok)
			inQuery[filterKey(tok.FieldText(), tok.FilterText())] = true
		}
	}

	listed := make(map[string]bool)
	for _, f := range source {
		field, value, ok := query.ParseFilterText(f.Value)
		if !ok {
			continue
		}
		key := filterKey(field, value)
		listed[key] = true
		view.Items = append(view.Items, Item{ResultFilter: f, Selected: inQuery[key]})
	}

	if !sec.Static {
		var extra []Item
		for _, tok := range present {
			key := filterKey(tok.FieldText(), tok.FilterText())
			if listed[key] {
				continue
			}
			listed[key] = true
			extra = append(extra, Item{
				ResultFilter: model.ResultFilter{
					Value: query.FormatFilter(tok.FieldText(), tok.FilterText()),
					Label: tok.FilterText(),
					Kind:  sec.ResultKind,
				},
				Selected: true,
			})
		}
		view.Items = append(extra, view.Items...)
	}

	if filterQuery != "" {
		needle := strings.ToLower(filterQuery)
		kept := view.Items[:0]
		for _, it := range view.Items {
			if it.Selected || strings.Contains(strings.ToLower(it.Label), needle) {
				kept = append(kept, it)
			}
		}
		view.Items = kept
	}
	return view
}

// filterKey identifies a filter by resolved kind, negation and value so that
// aliases ("l:go", "lang:go") compare equal
func filterKey(field, value string) string {
	resolved, ok := query.ResolveFilter(field)
	if !ok {
		return strings.ToLower(field) + ":" + value
	}
	prefix := ""
	if resolved.Negated {
		prefix = "-"
	}
	return prefix + string(resolved.Type) + ":" + value
}

// ToggleItem applies a click on a sidebar item to q. A selected item is
// removed; otherwise it is added, first clearing the section's kinds when the
// section is exclusive. Queries that do not scan are returned unchanged.
func (e *Editor) ToggleItem(q string, sec Section, value string) string {
	field, v, ok := query.ParseFilterText(value)
	if !ok {
		return q
	}
	tokens, err := e.scanner.Scan(q)
	if err != nil {
		return q
	}

	key := filterKey(field, v)
	var sameKinds []query.Token
	for _, k := range sec.Kinds {
		for _, tok := range query.FindFilters(tokens, k) {
			if filterKey(tok.FieldText(), tok.FilterText()) == key {
				return query.OmitFilter(q, tok)
			}
			sameKinds = append(sameKinds, tok)
		}
	}

	if sec.Exclusive {
		q = query.OmitFilters(q, sameKinds)
	}
	return query.AppendFilter(q, field, v)
}
