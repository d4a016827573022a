package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestScan_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Kind
	}{
		{"empty", "", nil},
		{"pattern", "foo", []Kind{KindPattern}},
		{"filter and pattern", "lang:go test", []Kind{KindFilter, KindWhitespace, KindPattern}},
		{"keyword", "a or b", []Kind{KindPattern, KindWhitespace, KindKeyword, KindWhitespace, KindPattern}},
		{"group", "(type:diff)", []Kind{KindOpenParen, KindFilter, KindCloseParen}},
		{"quoted pattern", `"hello world"`, []Kind{KindQuoted}},
		{"negated filter", "-file:test", []Kind{KindFilter}},
		{"call-like pattern", "foo(bar)", []Kind{KindPattern}},
		{"empty filter value", "type: foo", []Kind{KindFilter, KindWhitespace, KindPattern}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Scan(tt.input)
			if err != nil {
				t.Fatalf("Scan(%q) error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, kinds(tokens)); diff != "" {
				t.Errorf("kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScan_RangesCoverInput(t *testing.T) {
	inputs := []string{
		"lang:go test type:commit",
		`repo:^github\.com/foo$  author:"Jane Doe" (a or b)`,
		"  leading and trailing  ",
		`type:'diff' -file:_test\.go content:"x \"y\""`,
	}

	for _, input := range inputs {
		tokens, err := Scan(input)
		if err != nil {
			t.Fatalf("Scan(%q) error: %v", input, err)
		}
		var b strings.Builder
		pos := 0
		for _, tok := range tokens {
			if tok.Range.Start != pos {
				t.Errorf("Scan(%q): token %q starts at %d, want %d", input, tok.Value, tok.Range.Start, pos)
			}
			b.WriteString(input[tok.Range.Start:tok.Range.End])
			pos = tok.Range.End
		}
		if b.String() != input {
			t.Errorf("Scan(%q): tokens rebuild %q", input, b.String())
		}
	}
}

func TestScan_FilterValues(t *testing.T) {
	tokens, err := Scan(`author:"Jane \"JD\" Doe" -repo:foo type:commit lang:`)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	var filters []Token
	for _, tok := range tokens {
		if tok.Kind == KindFilter {
			filters = append(filters, tok)
		}
	}
	if len(filters) != 4 {
		t.Fatalf("expected 4 filters, got %d", len(filters))
	}

	if filters[0].Field != "author" || filters[0].FilterText() != `Jane "JD" Doe` || !filters[0].Filter.Quoted {
		t.Errorf("unexpected author filter: %+v", filters[0])
	}
	if !filters[1].Negated || filters[1].Field != "repo" || filters[1].FieldText() != "-repo" {
		t.Errorf("expected negated repo filter, got %+v", filters[1])
	}
	if filters[2].FilterText() != "commit" {
		t.Errorf("expected type value commit, got %q", filters[2].FilterText())
	}
	if filters[3].Filter != nil {
		t.Errorf("expected empty lang value, got %+v", filters[3].Filter)
	}
}

func TestScan_ValueStopsAtClosingParen(t *testing.T) {
	tokens, err := Scan("(type:diff) foo")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if tokens[1].FilterText() != "diff" {
		t.Errorf("expected value diff, got %q", tokens[1].FilterText())
	}
}

func TestScan_Errors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
	}{
		{`type:"commit`, 5},
		{`"open`, 0},
		{"(foo", 0},
		{"foo)", -1}, // Trailing ')' outside a group belongs to the pattern
		{") foo", 0},
	}

	for _, tt := range tests {
		_, err := Scan(tt.input)
		if tt.pos < 0 {
			if err != nil {
				t.Errorf("Scan(%q) unexpected error: %v", tt.input, err)
			}
			continue
		}
		var scanErr *ScanError
		if !errors.As(err, &scanErr) {
			t.Errorf("Scan(%q) expected *ScanError, got %v", tt.input, err)
			continue
		}
		if scanErr.Pos != tt.pos {
			t.Errorf("Scan(%q) error at %d, want %d", tt.input, scanErr.Pos, tt.pos)
		}
	}
}

// mustScan scans a query the test expects to be valid
func mustScan(t *testing.T, q string) []Token {
	t.Helper()
	tokens, err := Scan(q)
	if err != nil {
		t.Fatalf("Scan(%q) error: %v", q, err)
	}
	return tokens
}
