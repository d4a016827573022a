package query

import "testing"

func TestOmitFilter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field FilterType
		want  string
	}{
		{"trailing", "lang:go test type:commit", FieldType, "lang:go test"},
		{"leading", "type:commit lang:go test", FieldType, "lang:go test"},
		{"middle", "lang:go type:commit test", FieldType, "lang:go test"},
		{"only", "type:commit", FieldType, ""},
		{"in group", "(type:diff) foo", FieldType, "() foo"},
		{"adjacent quoted", `"x"type:diff foo`, FieldType, `"x" foo`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mustScan(t, tt.input)
			found := FindFilters(tokens, tt.field)
			if len(found) != 1 {
				t.Fatalf("expected 1 %s filter in %q, got %d", tt.field, tt.input, len(found))
			}
			if got := OmitFilter(tt.input, found[0]); got != tt.want {
				t.Errorf("OmitFilter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOmitFilters_Multiple(t *testing.T) {
	input := "type:diff foo type:commit bar TYPE:symbol"
	got := OmitFilters(input, FindFilters(mustScan(t, input), FieldType))
	if got != "foo bar" {
		t.Errorf("OmitFilters = %q, want %q", got, "foo bar")
	}
}

func TestReplaceToken_KeepsNextTokenSeparate(t *testing.T) {
	input := `type:"diff"foo`
	tok := FindFilters(mustScan(t, input), FieldType)[0]
	got := ReplaceToken(input, tok, "type:commit")
	if got != "type:commit foo" {
		t.Errorf("ReplaceToken = %q", got)
	}
}

func TestToggleFilter(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		field     string
		value     string
		exclusive bool
		want      string
	}{
		{"add", "foo", "lang", "go", false, "foo lang:go"},
		{"remove", "foo lang:go", "lang", "go", false, "foo"},
		{"remove alias", "foo l:go", "lang", "go", false, "foo"},
		{"add second", "foo lang:go", "lang", "rust", false, "foo lang:go lang:rust"},
		{"exclusive replaces", "foo author:a", "author", "b", true, "foo author:b"},
		{"negated distinct", "foo -file:x", "file", "x", false, "foo -file:x file:x"},
		{"unknown field", "foo", "bogus", "x", false, "foo"},
		{"unscannable", `foo "bar`, "lang", "go", false, `foo "bar`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToggleFilter(tt.input, tt.field, tt.value, tt.exclusive); got != tt.want {
				t.Errorf("ToggleFilter = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToggleFilter_Involution(t *testing.T) {
	queries := []string{"", "foo", "repo:x foo", "(a or b) lang:rust"}
	for _, q := range queries {
		once := ToggleFilter(q, "lang", "go", false)
		twice := ToggleFilter(once, "lang", "go", false)
		if twice != q {
			t.Errorf("toggling lang:go twice on %q gave %q", q, twice)
		}
	}
}

func TestParseFilterText(t *testing.T) {
	field, value, ok := ParseFilterText(` author:"Jane Doe" `)
	if !ok || field != "author" || value != "Jane Doe" {
		t.Errorf("ParseFilterText = %q, %q, %v", field, value, ok)
	}
	if field, _, ok := ParseFilterText("-f:test"); !ok || field != "-f" {
		t.Errorf("expected negated alias field, got %q, %v", field, ok)
	}
	if _, _, ok := ParseFilterText("foo bar"); ok {
		t.Error("expected ParseFilterText to reject non-filter text")
	}
}

func TestQuoteValue(t *testing.T) {
	tests := map[string]string{
		"go":         "go",
		"Jane Doe":   `"Jane Doe"`,
		`a"b`:        `"a\"b"`,
		`a\b`:        `"a\\b"`,
		"":           `""`,
		"symbol.fn":  "symbol.fn",
		"(group)":    `"(group)"`,
	}
	for in, want := range tests {
		if got := QuoteValue(in); got != want {
			t.Errorf("QuoteValue(%q) = %q, want %q", in, got, want)
		}
		_, value, ok := ParseFilterText("f:" + QuoteValue(in))
		if !ok || value != in {
			t.Errorf("value %q did not scan back (got %q, ok=%v)", in, value, ok)
		}
	}
}
