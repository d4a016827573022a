package filters

import (
	"errors"
	"testing"

	"github.com/ppiankov/qfilter/internal/query"
)

var sampleQueries = []string{
	"",
	"foo",
	"lang:go test",
	"type:diff foo",
	"type:diff type:commit foo",
	"repo:^github\\.com/foo$ (a or b) type:symbol",
	`author:"Jane Doe" type:"commit" fix`,
	"TYPE:repo x",
	"(type:diff) y",
	`type:"diff"foo`,
}

func TestResolveActiveType(t *testing.T) {
	editor := NewEditor(nil)

	tests := []struct {
		query string
		want  SearchFilterType
	}{
		{"", Code},
		{"lang:go test", Code},
		{"type:commit foo", Commits},
		{"foo type:diff", Diffs},
		{"type:symbol", Symbols},
		{"type:repo", Repositories},
		{"type:path", Paths},
		{"type:file", Code},
		{"type:unknown", Code},
		{"type:", Code},
		{`type:"commit"`, Commits},
		{"TYPE:commit", Commits},
		{"type:diff type:commit foo", Code},
		{"type:commit type:commit", Code},
		{"-type:commit", Code},
		{`type:"commit`, Code},
		{"(type:diff)", Diffs},
	}

	for _, tt := range tests {
		if got := editor.ResolveActiveType(tt.query); got != tt.want {
			t.Errorf("ResolveActiveType(%q) = %s, want %s", tt.query, got, tt.want)
		}
	}
}

func TestApplyTypeChange_Examples(t *testing.T) {
	editor := NewEditor(nil)

	tests := []struct {
		query   string
		newType SearchFilterType
		want    string
	}{
		{"lang:go test", Commits, "lang:go test type:commit"},
		{"lang:go test", Code, "lang:go test"},
		{"type:diff foo", Commits, "type:commit foo"},
		{"type:diff type:commit foo", Symbols, "type:symbol foo"},
		{"type:diff type:commit foo", Code, "foo"},
		{"foo type:diff bar", Code, "foo bar"},
		{"", Diffs, "type:diff"},
		{`type:"diff"foo`, Paths, "type:path foo"},
		{`foo "bar`, Commits, `foo "bar type:commit`},
		{"(lang:go", Commits, "(lang:go type:commit"},
		{"(lang:go", Code, "(lang:go"},
		{`type:commit "open`, Diffs, `type:commit "open type:diff`},
	}

	for _, tt := range tests {
		if got := editor.ApplyTypeChange(tt.query, tt.newType); got != tt.want {
			t.Errorf("ApplyTypeChange(%q, %s) = %q, want %q", tt.query, tt.newType, got, tt.want)
		}
	}
}

func TestApplyTypeChange_RoundTrip(t *testing.T) {
	editor := NewEditor(nil)
	for _, q := range sampleQueries {
		for _, typ := range AllTypes {
			edited := editor.ApplyTypeChange(q, typ)
			if got := editor.ResolveActiveType(edited); got != typ {
				t.Errorf("ResolveActiveType(ApplyTypeChange(%q, %s)) = %s (edited %q)", q, typ, got, edited)
			}
		}
	}
}

func TestApplyTypeChange_Idempotent(t *testing.T) {
	editor := NewEditor(nil)
	for _, q := range sampleQueries {
		for _, typ := range AllTypes {
			once := editor.ApplyTypeChange(q, typ)
			twice := editor.ApplyTypeChange(once, typ)
			if once != twice {
				t.Errorf("ApplyTypeChange not idempotent for %q, %s: %q then %q", q, typ, once, twice)
			}
		}
	}
}

func TestApplyTypeChange_ClearingRemovesTypeFilters(t *testing.T) {
	editor := NewEditor(nil)
	for _, q := range sampleQueries {
		cleared := editor.ApplyTypeChange(q, Code)
		tokens, err := query.Scan(cleared)
		if err != nil {
			t.Fatalf("cleared query %q does not scan: %v", cleared, err)
		}
		if n := len(query.FindFilters(tokens, query.FieldType)); n != 0 {
			t.Errorf("ApplyTypeChange(%q, code) = %q still has %d type filters", q, cleared, n)
		}
	}
}

func TestEditor_ScanFailureFallsBack(t *testing.T) {
	failing := query.ScannerFunc(func(string) ([]query.Token, error) {
		return nil, errors.New("boom")
	})
	editor := NewEditor(failing)

	if got := editor.ResolveActiveType("type:commit"); got != Code {
		t.Errorf("expected Code on scan failure, got %s", got)
	}
	if got := editor.ApplyTypeChange("type:commit", Diffs); got != "type:commit type:diff" {
		t.Errorf("expected type filter appended on scan failure, got %q", got)
	}
	if got := editor.ApplyTypeChange("type:commit", Code); got != "type:commit" {
		t.Errorf("expected query unchanged for Code on scan failure, got %q", got)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    SearchFilterType
		wantErr bool
	}{
		{"commits", Commits, false},
		{"commit", Commits, false},
		{"Diffs", Diffs, false},
		{"symbol", Symbols, false},
		{"repo", Repositories, false},
		{"paths", Paths, false},
		{"code", Code, false},
		{"", Code, false},
		{"nope", Code, true},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownType) {
			t.Errorf("ParseType(%q) error should wrap ErrUnknownType, got %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSyntaxRoundTrip(t *testing.T) {
	for _, typ := range AllTypes {
		if got := ResolveFilterTypeValue(ToSearchSyntaxTypeFilter(typ)); got != typ {
			t.Errorf("syntax round trip for %s gave %s", typ, got)
		}
	}
}
