package query

import (
	"sort"
	"strings"
)

// FindFilters returns the filter tokens resolving to the given kind
func FindFilters(tokens []Token, ft FilterType) []Token {
	var found []Token
	for _, tok := range tokens {
		if IsKind(tok, ft) {
			found = append(found, tok)
		}
	}
	return found
}

// OmitFilter removes a token from the query it was scanned from, together
// with one adjoining run of whitespace.
func OmitFilter(query string, tok Token) string {
	before := query[:tok.Range.Start]
	after := query[tok.Range.End:]

	switch {
	case strings.TrimSpace(before) == "":
		return strings.TrimLeft(after, " \t\r\n")
	case strings.TrimSpace(after) == "":
		return strings.TrimRight(before, " \t\r\n")
	}

	beforeSpace := isSpace(before[len(before)-1])
	afterSpace := isSpace(after[0])
	switch {
	case beforeSpace && afterSpace:
		after = strings.TrimLeft(after, " \t\r\n")
	case !beforeSpace && !afterSpace && needsSeparator(before[len(before)-1], after[0]):
		return before + " " + after
	}
	return before + after
}

// OmitFilters removes every given token. Tokens must come from one scan of
// query; they are removed back to front so earlier ranges stay valid.
func OmitFilters(query string, toks []Token) string {
	sorted := make([]Token, len(toks))
	copy(sorted, toks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start > sorted[j].Range.Start
	})
	for _, tok := range sorted {
		query = OmitFilter(query, tok)
	}
	return query
}

// ReplaceToken substitutes text for a token's range
func ReplaceToken(query string, tok Token, text string) string {
	after := query[tok.Range.End:]
	if text != "" && after != "" && needsSeparator(text[len(text)-1], after[0]) && !isSpace(after[0]) {
		after = " " + after
	}
	return query[:tok.Range.Start] + text + after
}

// AppendFilter adds field:value at the end of the query
func AppendFilter(query, field, value string) string {
	filter := FormatFilter(field, value)
	trimmed := strings.TrimRight(query, " \t\r\n")
	if trimmed == "" {
		return filter
	}
	return trimmed + " " + filter
}

// ToggleFilter removes field:value if the query already holds it, and adds it
// otherwise. When exclusive, adding first removes every other filter of the
// same kind. Queries that do not scan are returned unchanged.
func ToggleFilter(query, field, value string, exclusive bool) string {
	resolved, ok := ResolveFilter(field)
	if !ok {
		return query
	}
	tokens, err := Scan(query)
	if err != nil {
		return query
	}

	same := FindFilters(tokens, resolved.Type)
	for _, tok := range same {
		if tok.Negated == resolved.Negated && tok.FilterText() == value {
			return OmitFilter(query, tok)
		}
	}

	if exclusive {
		query = OmitFilters(query, same)
	}
	return AppendFilter(query, field, value)
}

// ToggleFilterText is ToggleFilter for a filter written as "field:value"
func ToggleFilterText(query, text string, exclusive bool) string {
	field, value, ok := ParseFilterText(text)
	if !ok {
		return query
	}
	return ToggleFilter(query, field, value, exclusive)
}

// ParseFilterText splits a single "field:value" filter into its parts
func ParseFilterText(text string) (field, value string, ok bool) {
	tokens, err := Scan(strings.TrimSpace(text))
	if err != nil || len(tokens) != 1 || tokens[0].Kind != KindFilter {
		return "", "", false
	}
	return tokens[0].FieldText(), tokens[0].FilterText(), true
}

// FormatFilter renders field:value, quoting the value when needed
func FormatFilter(field, value string) string {
	return field + ":" + QuoteValue(value)
}

// QuoteValue double-quotes a filter value that would not scan back as a
// single unquoted value.
func QuoteValue(value string) string {
	if value != "" && !strings.ContainsAny(value, " \t\r\n\"'()\\") {
		return value
	}
	if value == "" {
		return `""`
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// needsSeparator reports whether two adjacent characters would fuse into a
// different token if no whitespace separated them.
func needsSeparator(left, right byte) bool {
	return left != '(' && right != ')'
}
