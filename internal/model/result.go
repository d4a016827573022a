package model

import "time"

// ResultFilter is a filter suggestion returned alongside search results
// (e.g. "lang:go" with the number of matches it would keep)
type ResultFilter struct {
	Value    string `json:"value" yaml:"value"`         // Filter text as it would appear in a query
	Label    string `json:"label" yaml:"label"`         // Display label
	Count    int    `json:"count" yaml:"count"`         // Matches carrying this filter
	LimitHit bool   `json:"limitHit" yaml:"limit_hit"`  // Count is a lower bound
	Kind     string `json:"kind" yaml:"kind"`           // lang, repo, file, utility, author, ...
}

// MatchType classifies a search match
type MatchType string

const (
	MatchContent MatchType = "content"
	MatchPath    MatchType = "path"
	MatchRepo    MatchType = "repo"
	MatchSymbol  MatchType = "symbol"
	MatchCommit  MatchType = "commit"
)

// SearchMatch is a single search result. Only the fields the sidebar reads
// are modelled.
type SearchMatch struct {
	Type       MatchType   `json:"type" yaml:"type"`
	Repository string      `json:"repository" yaml:"repository"`
	Path       string      `json:"path,omitempty" yaml:"path,omitempty"`
	Commit     string      `json:"oid,omitempty" yaml:"oid,omitempty"`
	Author     *CommitUser `json:"author,omitempty" yaml:"author,omitempty"`
	Message    string      `json:"message,omitempty" yaml:"message,omitempty"`
}

// CommitUser identifies the author of a commit match
type CommitUser struct {
	Name  string    `json:"name" yaml:"name"`
	Email string    `json:"email,omitempty" yaml:"email,omitempty"`
	Date  time.Time `json:"date,omitempty" yaml:"date,omitempty"`
}

// SearchResults is the payload read by the sidebar commands
type SearchResults struct {
	Matches []SearchMatch  `json:"matches" yaml:"matches"`
	Filters []ResultFilter `json:"filters" yaml:"filters"`
}
