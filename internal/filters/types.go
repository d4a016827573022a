package filters

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownType is returned when a result type name is not recognized
var ErrUnknownType = errors.New("unknown search filter type")

// SearchFilterType is the category of results a query asks for
type SearchFilterType int

const (
	Code SearchFilterType = iota // Default when no single type filter is present
	Repositories
	Paths
	Symbols
	Commits
	Diffs
)

// AllTypes lists the result types in sidebar order
var AllTypes = []SearchFilterType{Code, Repositories, Paths, Symbols, Commits, Diffs}

func (t SearchFilterType) String() string {
	switch t {
	case Repositories:
		return "repositories"
	case Paths:
		return "paths"
	case Symbols:
		return "symbols"
	case Commits:
		return "commits"
	case Diffs:
		return "diffs"
	default:
		return "code"
	}
}

// MarshalText renders the type by name
func (t SearchFilterType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the names produced by String as well as the query
// syntax values
func (t *SearchFilterType) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseType parses a type name ("commits") or a syntax value ("commit")
func ParseType(name string) (SearchFilterType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range AllTypes {
		if name == t.String() {
			return t, nil
		}
	}
	if name == "" || name == "file" {
		return Code, nil
	}
	if t, ok := syntaxToType[name]; ok {
		return t, nil
	}
	return Code, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

var syntaxToType = map[string]SearchFilterType{
	"repo":   Repositories,
	"path":   Paths,
	"symbol": Symbols,
	"commit": Commits,
	"diff":   Diffs,
}

// ResolveFilterTypeValue maps the value of a type: filter to a result type.
// Absent or unrecognized values are Code.
func ResolveFilterTypeValue(value string) SearchFilterType {
	if t, ok := syntaxToType[value]; ok {
		return t
	}
	return Code
}

// ToSearchSyntaxTypeFilter returns the type: filter value for t, or "" for
// Code which is expressed by omitting the filter
func ToSearchSyntaxTypeFilter(t SearchFilterType) string {
	switch t {
	case Repositories:
		return "repo"
	case Paths:
		return "path"
	case Symbols:
		return "symbol"
	case Commits:
		return "commit"
	case Diffs:
		return "diff"
	default:
		return ""
	}
}
