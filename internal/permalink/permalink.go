package permalink

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrNoRepository is returned for URLs whose path names no repository
var ErrNoRepository = errors.New("url does not name a repository")

// RepoURL is a parsed repository page URL of the form
// /<repo>[@<revision>][/-/<rest>][?query][#fragment]
type RepoURL struct {
	Repo     string
	Revision string
	Rest     string // Escaped path after "/-/", without the separator
	RawQuery string
	Fragment string
}

// ParseRepoURL parses a repository page URL. Absolute URLs keep only their
// path, query and fragment. Path parts stay escaped as written so String
// reproduces them exactly.
func ParseRepoURL(rawURL string) (RepoURL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return RepoURL{}, fmt.Errorf("parse url: %w", err)
	}

	path := strings.TrimPrefix(u.EscapedPath(), "/")
	repoRev, rest, _ := strings.Cut(path, "/-/")
	repoRev = strings.TrimSuffix(repoRev, "/-")
	repo, rev, _ := strings.Cut(repoRev, "@")
	if repo == "" {
		return RepoURL{}, fmt.Errorf("%w: %q", ErrNoRepository, rawURL)
	}

	return RepoURL{
		Repo:     repo,
		Revision: rev,
		Rest:     rest,
		RawQuery: u.RawQuery,
		Fragment: u.Fragment,
	}, nil
}

// String renders the URL as a root-relative path
func (r RepoURL) String() string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(r.Repo)
	if r.Revision != "" {
		b.WriteString("@")
		b.WriteString(r.Revision)
	}
	if r.Rest != "" {
		b.WriteString("/-/")
		b.WriteString(r.Rest)
	}
	if r.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(r.RawQuery)
	}
	if r.Fragment != "" {
		b.WriteString("#")
		b.WriteString(r.Fragment)
	}
	return b.String()
}

// ReplaceRevision returns rawURL with its revision set to rev. An empty rev
// drops the revision.
func ReplaceRevision(rawURL, rev string) (string, error) {
	parsed, err := ParseRepoURL(rawURL)
	if err != nil {
		return "", err
	}
	parsed.Revision = rev
	return parsed.String(), nil
}

// Links are the two URLs offered for a repository page
type Links struct {
	Permalink string `json:"permalink" yaml:"permalink"` // Revision pinned to the full commit ID
	Link      string `json:"link" yaml:"link"`           // Revision as the user named it
	Pinned    bool   `json:"pinned" yaml:"pinned"`       // Revision already is the commit ID, so both links match
}

// LinksFor builds the permalink and plain link for the page at rawURL
func LinksFor(rawURL, revision, commitID string) (Links, error) {
	permalink, err := ReplaceRevision(rawURL, commitID)
	if err != nil {
		return Links{}, fmt.Errorf("build permalink: %w", err)
	}
	link, err := ReplaceRevision(rawURL, revision)
	if err != nil {
		return Links{}, fmt.Errorf("build link: %w", err)
	}
	return Links{Permalink: permalink, Link: link, Pinned: revision == commitID}, nil
}

// Location identifies a file position to link to
type Location struct {
	Repo      string
	CommitID  string
	Path      string
	Line      int // 1-based; 0 means no position
	Character int // 1-based; 0 means whole line
	EndLine   int // 0 means single line
}

// Build returns the pinned blob URL for a location
func Build(loc Location) (string, error) {
	if loc.Repo == "" {
		return "", ErrNoRepository
	}
	r := RepoURL{Repo: loc.Repo, Revision: loc.CommitID}
	if loc.Path != "" {
		r.Rest = "blob/" + escapePath(strings.TrimPrefix(loc.Path, "/"))
		if loc.Line > 0 {
			r.RawQuery = lineParam(loc)
		}
	}
	return r.String(), nil
}

// escapePath escapes a raw file path for use in a URL, keeping slashes
func escapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}

func lineParam(loc Location) string {
	s := "L" + strconv.Itoa(loc.Line)
	if loc.Character > 0 {
		s += ":" + strconv.Itoa(loc.Character)
	}
	if loc.EndLine > loc.Line {
		s += "-" + strconv.Itoa(loc.EndLine)
	}
	return s
}

// WithBase prefixes a root-relative link with an instance URL
func WithBase(base, link string) string {
	if base == "" {
		return link
	}
	return strings.TrimRight(base, "/") + link
}
