package permalink

import (
	"errors"
	"testing"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		in   string
		want RepoURL
	}{
		{"/github.com/a/b", RepoURL{Repo: "github.com/a/b"}},
		{"/github.com/a/b@main", RepoURL{Repo: "github.com/a/b", Revision: "main"}},
		{"/github.com/a/b@main/-/blob/cmd/x.go?L10#tab", RepoURL{Repo: "github.com/a/b", Revision: "main", Rest: "blob/cmd/x.go", RawQuery: "L10", Fragment: "tab"}},
		{"https://sg.example.com/github.com/a/b/-/tree/internal", RepoURL{Repo: "github.com/a/b", Rest: "tree/internal"}},
	}

	for _, tt := range tests {
		got, err := ParseRepoURL(tt.in)
		if err != nil {
			t.Fatalf("ParseRepoURL(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseRepoURL(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseRepoURL("/"); !errors.Is(err, ErrNoRepository) {
		t.Errorf("expected ErrNoRepository, got %v", err)
	}
}

func TestReplaceRevision(t *testing.T) {
	tests := []struct {
		in, rev, want string
	}{
		{"/github.com/a/b@main/-/blob/x.go?L3", "0123abcd", "/github.com/a/b@0123abcd/-/blob/x.go?L3"},
		{"/github.com/a/b/-/blob/x.go", "v1.0.0", "/github.com/a/b@v1.0.0/-/blob/x.go"},
		{"/github.com/a/b@main", "", "/github.com/a/b"},
		{"/github.com/a/b@main/-/blob/what%3F.md", "4d3c2b1", "/github.com/a/b@4d3c2b1/-/blob/what%3F.md"},
		{"/github.com/a/b@main/-/blob/c%23.cs?L2", "4d3c2b1", "/github.com/a/b@4d3c2b1/-/blob/c%23.cs?L2"},
		{"/github.com/a/b@main/-/blob/a%20b.go#x", "4d3c2b1", "/github.com/a/b@4d3c2b1/-/blob/a%20b.go#x"},
	}
	for _, tt := range tests {
		got, err := ReplaceRevision(tt.in, tt.rev)
		if err != nil {
			t.Fatalf("ReplaceRevision(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ReplaceRevision(%q, %q) = %q, want %q", tt.in, tt.rev, got, tt.want)
		}
	}
}

func TestParseRepoURL_KeepsEscapes(t *testing.T) {
	got, err := ParseRepoURL("/github.com/a/b@main/-/blob/what%3F.md")
	if err != nil {
		t.Fatalf("ParseRepoURL error: %v", err)
	}
	want := RepoURL{Repo: "github.com/a/b", Revision: "main", Rest: "blob/what%3F.md"}
	if got != want {
		t.Errorf("ParseRepoURL = %+v, want %+v", got, want)
	}

	again, err := ParseRepoURL(got.String())
	if err != nil {
		t.Fatalf("ParseRepoURL(String()) error: %v", err)
	}
	if again != got {
		t.Errorf("round trip changed the URL: %+v, want %+v", again, got)
	}
}

func TestLinksFor(t *testing.T) {
	sha := "4d3c2b1a4d3c2b1a4d3c2b1a4d3c2b1a4d3c2b1a"
	links, err := LinksFor("/github.com/a/b@main/-/blob/x.go", "main", sha)
	if err != nil {
		t.Fatalf("LinksFor error: %v", err)
	}
	if links.Permalink != "/github.com/a/b@"+sha+"/-/blob/x.go" {
		t.Errorf("unexpected permalink %q", links.Permalink)
	}
	if links.Link != "/github.com/a/b@main/-/blob/x.go" {
		t.Errorf("unexpected link %q", links.Link)
	}
	if links.Pinned {
		t.Error("main should not count as pinned")
	}

	pinned, err := LinksFor("/github.com/a/b@"+sha, sha, sha)
	if err != nil {
		t.Fatalf("LinksFor error: %v", err)
	}
	if !pinned.Pinned || pinned.Link != pinned.Permalink {
		t.Errorf("expected identical pinned links, got %+v", pinned)
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{Repo: "github.com/a/b", CommitID: "abc"}, "/github.com/a/b@abc"},
		{Location{Repo: "github.com/a/b", CommitID: "abc", Path: "/x/y.go"}, "/github.com/a/b@abc/-/blob/x/y.go"},
		{Location{Repo: "github.com/a/b", CommitID: "abc", Path: "y.go", Line: 10}, "/github.com/a/b@abc/-/blob/y.go?L10"},
		{Location{Repo: "github.com/a/b", CommitID: "abc", Path: "y.go", Line: 10, Character: 4, EndLine: 12}, "/github.com/a/b@abc/-/blob/y.go?L10:4-12"},
		{Location{Repo: "github.com/a/b", CommitID: "abc", Path: "docs/what?.md"}, "/github.com/a/b@abc/-/blob/docs/what%3F.md"},
		{Location{Repo: "github.com/a/b", CommitID: "abc", Path: "c#.cs", Line: 1}, "/github.com/a/b@abc/-/blob/c%23.cs?L1"},
		{Location{Repo: "github.com/a/b", CommitID: "abc", Path: "a b.go"}, "/github.com/a/b@abc/-/blob/a%20b.go"},
	}
	for _, tt := range tests {
		got, err := Build(tt.loc)
		if err != nil {
			t.Fatalf("Build(%+v) error: %v", tt.loc, err)
		}
		if got != tt.want {
			t.Errorf("Build(%+v) = %q, want %q", tt.loc, got, tt.want)
		}
	}

	if _, err := Build(Location{}); !errors.Is(err, ErrNoRepository) {
		t.Errorf("expected ErrNoRepository, got %v", err)
	}
	if got := WithBase("https://sg.example.com/", "/r@c"); got != "https://sg.example.com/r@c" {
		t.Errorf("WithBase = %q", got)
	}
}
