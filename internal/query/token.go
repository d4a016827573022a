package query

// Kind classifies a scanned token
type Kind int

const (
	KindWhitespace Kind = iota
	KindPattern
	KindQuoted
	KindFilter
	KindKeyword
	KindOpenParen
	KindCloseParen
)

func (k Kind) String() string {
	switch k {
	case KindWhitespace:
		return "whitespace"
	case KindPattern:
		return "pattern"
	case KindQuoted:
		return "quoted"
	case KindFilter:
		return "filter"
	case KindKeyword:
		return "keyword"
	case KindOpenParen:
		return "openingParen"
	case KindCloseParen:
		return "closingParen"
	default:
		return "unknown"
	}
}

// Range is a half-open byte range [Start, End) into the scanned query
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FilterValue is the value half of a field:value filter
type FilterValue struct {
	Raw    string `json:"raw"`    // Text as written, including quotes
	Value  string `json:"value"`  // Unquoted, unescaped value
	Quoted bool   `json:"quoted"` // Whether the value was quoted
	Range  Range  `json:"range"`
}

// Token is one lexical element of a query
type Token struct {
	Kind  Kind   `json:"kind"`
	Range Range  `json:"range"`
	Value string `json:"value"` // Raw token text

	// Filter tokens only
	Field   string       `json:"field,omitempty"`   // Field name without the leading '-'
	Negated bool         `json:"negated,omitempty"` // Field was written as -field
	Filter  *FilterValue `json:"filter,omitempty"`  // nil when the value is empty
}

// FieldText returns the field as written, including the negation prefix
func (t Token) FieldText() string {
	if t.Negated {
		return "-" + t.Field
	}
	return t.Field
}

// FilterText returns the unquoted filter value, or "" when absent
func (t Token) FilterText() string {
	if t.Filter == nil {
		return ""
	}
	return t.Filter.Value
}
