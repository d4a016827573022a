package query

import (
	"sort"
	"strings"
)

// FilterType is the semantic kind of a filter field
type FilterType string

const (
	FieldRepo        FilterType = "repo"
	FieldRepoHasFile FilterType = "repohasfile"
	FieldFile        FilterType = "file"
	FieldLang        FilterType = "lang"
	FieldContent     FilterType = "content"
	FieldType        FilterType = "type"
	FieldCase        FilterType = "case"
	FieldPatternType FilterType = "patterntype"
	FieldAuthor      FilterType = "author"
	FieldCommitter   FilterType = "committer"
	FieldMessage     FilterType = "message"
	FieldBefore      FilterType = "before"
	FieldAfter       FilterType = "after"
	FieldSelect      FilterType = "select"
	FieldFork        FilterType = "fork"
	FieldArchived    FilterType = "archived"
	FieldVisibility  FilterType = "visibility"
	FieldRev         FilterType = "rev"
	FieldContext     FilterType = "context"
	FieldCount       FilterType = "count"
	FieldTimeout     FilterType = "timeout"
)

// FilterInfo describes a recognized filter kind
type FilterInfo struct {
	Type        FilterType `json:"type" yaml:"type"`
	Negatable   bool       `json:"negatable" yaml:"negatable"`
	Aliases     []string   `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Description string     `json:"description" yaml:"description"`
}

// ResolvedFilter is the result of looking up a field name
type ResolvedFilter struct {
	Type    FilterType
	Negated bool
}

var taxonomy = map[FilterType]FilterInfo{
	FieldRepo:        {Type: FieldRepo, Negatable: true, Description: "Include only results from repositories matching the given regex pattern."},
	FieldRepoHasFile: {Type: FieldRepoHasFile, Negatable: true, Description: "Search only inside repositories that contain a matching file path."},
	FieldFile:        {Type: FieldFile, Negatable: true, Description: "Include only results from files matching the given regex pattern."},
	FieldLang:        {Type: FieldLang, Negatable: true, Description: "Include only results from the given language."},
	FieldContent:     {Type: FieldContent, Negatable: true, Description: "Explicitly search file contents for the given pattern."},
	FieldType:        {Type: FieldType, Description: "Limit results to the specified type."},
	FieldCase:        {Type: FieldCase, Description: "Treat the search pattern as case-sensitive."},
	FieldPatternType: {Type: FieldPatternType, Description: "The pattern type (regexp, literal, structural, standard) in use."},
	FieldAuthor:      {Type: FieldAuthor, Negatable: true, Description: "Commits or diffs authored by a user."},
	FieldCommitter:   {Type: FieldCommitter, Negatable: true, Description: "Commits or diffs committed by a user."},
	FieldMessage:     {Type: FieldMessage, Negatable: true, Description: "Commits or diffs with messages matching the pattern."},
	FieldBefore:      {Type: FieldBefore, Description: "Commits or diffs made before the given date."},
	FieldAfter:       {Type: FieldAfter, Description: "Commits or diffs made after the given date."},
	FieldSelect:      {Type: FieldSelect, Description: "Shows only query results for a given type, such as repo, file, or symbol."},
	FieldFork:        {Type: FieldFork, Description: "Include results from forked repositories or search only forks."},
	FieldArchived:    {Type: FieldArchived, Description: "Include results from archived repositories or search only archived ones."},
	FieldVisibility:  {Type: FieldVisibility, Description: "Include only public or private repositories."},
	FieldRev:         {Type: FieldRev, Description: "Search a revision instead of the default branch."},
	FieldContext:     {Type: FieldContext, Description: "Search only repositories within the given search context."},
	FieldCount:       {Type: FieldCount, Description: "Number of results to fetch."},
	FieldTimeout:     {Type: FieldTimeout, Description: "Duration before timeout."},
}

var aliases = map[string]FilterType{
	"r":        FieldRepo,
	"f":        FieldFile,
	"l":        FieldLang,
	"language": FieldLang,
	"since":    FieldAfter,
	"until":    FieldBefore,
	"m":        FieldMessage,
	"msg":      FieldMessage,
	"revision": FieldRev,
}

// ResolveFilter maps a field name as written (possibly negated, any case,
// possibly an alias) to its filter kind. ok is false for unknown fields and
// for negated forms of non-negatable kinds.
func ResolveFilter(field string) (ResolvedFilter, bool) {
	name := strings.ToLower(field)
	negated := false
	if strings.HasPrefix(name, "-") {
		negated = true
		name = name[1:]
	}

	ft, found := aliases[name]
	if !found {
		ft = FilterType(name)
	}

	info, found := taxonomy[ft]
	if !found {
		return ResolvedFilter{}, false
	}
	if negated && !info.Negatable {
		return ResolvedFilter{}, false
	}
	return ResolvedFilter{Type: info.Type, Negated: negated}, true
}

// Fields lists every recognized filter kind with its aliases, sorted by name
func Fields() []FilterInfo {
	out := make([]FilterInfo, 0, len(taxonomy))
	for _, info := range taxonomy {
		for alias, ft := range aliases {
			if ft == info.Type {
				info.Aliases = append(info.Aliases, alias)
			}
		}
		sort.Strings(info.Aliases)
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// IsKind reports whether a token is a filter resolving to the given kind
func IsKind(tok Token, ft FilterType) bool {
	if tok.Kind != KindFilter {
		return false
	}
	resolved, ok := ResolveFilter(tok.FieldText())
	return ok && resolved.Type == ft
}
