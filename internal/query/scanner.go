package query

import (
	"fmt"
	"strings"
)

// ScanError reports why a query could not be scanned
type ScanError struct {
	Pos    int    // Byte offset of the offending character
	Reason string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan query at %d: %s", e.Pos, e.Reason)
}

// Scanner splits a query into tokens
type Scanner interface {
	Scan(query string) ([]Token, error)
}

// ScannerFunc adapts a function to the Scanner interface
type ScannerFunc func(query string) ([]Token, error)

// Scan calls f(query)
func (f ScannerFunc) Scan(query string) ([]Token, error) {
	return f(query)
}

// DefaultScanner scans with Scan
var DefaultScanner Scanner = ScannerFunc(Scan)

// Scan tokenizes a search query. The returned token ranges cover the input
// exactly and in order.
func Scan(query string) ([]Token, error) {
	s := &scanner{input: query}
	return s.run()
}

type scanner struct {
	input  string
	pos    int
	depth  int
	opens  []int
	tokens []Token
}

func (s *scanner) run() ([]Token, error) {
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		switch {
		case isSpace(c):
			s.scanWhitespace()
		case c == '(':
			s.opens = append(s.opens, s.pos)
			s.depth++
			s.emit(KindOpenParen, s.pos, s.pos+1)
		case c == ')':
			if s.depth == 0 {
				return nil, &ScanError{Pos: s.pos, Reason: "unbalanced parentheses: unexpected ')'"}
			}
			s.depth--
			s.opens = s.opens[:len(s.opens)-1]
			s.emit(KindCloseParen, s.pos, s.pos+1)
		case c == '"' || c == '\'':
			start := s.pos
			end, _, err := s.scanQuoted(start)
			if err != nil {
				return nil, err
			}
			s.tokens = append(s.tokens, Token{Kind: KindQuoted, Range: Range{Start: start, End: end}, Value: s.input[start:end]})
			s.pos = end
		default:
			if ok, err := s.scanFilter(); err != nil {
				return nil, err
			} else if !ok {
				s.scanPattern()
			}
		}
	}

	if s.depth > 0 {
		return nil, &ScanError{Pos: s.opens[len(s.opens)-1], Reason: "unbalanced parentheses: unclosed '('"}
	}
	return s.tokens, nil
}

// emit appends a single token and advances past it
func (s *scanner) emit(kind Kind, start, end int) {
	s.tokens = append(s.tokens, Token{Kind: kind, Range: Range{Start: start, End: end}, Value: s.input[start:end]})
	s.pos = end
}

func (s *scanner) scanWhitespace() {
	start := s.pos
	end := start
	for end < len(s.input) && isSpace(s.input[end]) {
		end++
	}
	s.emit(KindWhitespace, start, end)
}

// scanQuoted scans a quoted string starting at a quote character and returns
// the end offset (after the closing quote) and the unescaped contents.
func (s *scanner) scanQuoted(start int) (int, string, error) {
	delim := s.input[start]
	var b strings.Builder
	for i := start + 1; i < len(s.input); i++ {
		c := s.input[i]
		switch {
		case c == '\\' && i+1 < len(s.input):
			next := s.input[i+1]
			if next == delim || next == '\\' {
				b.WriteByte(next)
			} else {
				b.WriteByte(c)
				b.WriteByte(next)
			}
			i++
		case c == delim:
			return i + 1, b.String(), nil
		default:
			b.WriteByte(c)
		}
	}
	return 0, "", &ScanError{Pos: start, Reason: fmt.Sprintf("unterminated quote %q", delim)}
}

// scanFilter scans a field:value token at the current position. It returns
// false without consuming input when no field prefix is present.
func (s *scanner) scanFilter() (bool, error) {
	start := s.pos
	i := start
	negated := false
	if i < len(s.input) && s.input[i] == '-' {
		negated = true
		i++
	}
	if i >= len(s.input) || !isLetter(s.input[i]) {
		return false, nil
	}
	fieldStart := i
	for i < len(s.input) && isFieldChar(s.input[i]) {
		i++
	}
	if i >= len(s.input) || s.input[i] != ':' {
		return false, nil
	}
	field := s.input[fieldStart:i]
	i++ // colon

	tok := Token{Kind: KindFilter, Field: field, Negated: negated}

	switch {
	case i < len(s.input) && (s.input[i] == '"' || s.input[i] == '\''):
		end, value, err := s.scanQuoted(i)
		if err != nil {
			return false, err
		}
		tok.Filter = &FilterValue{Raw: s.input[i:end], Value: value, Quoted: true, Range: Range{Start: i, End: end}}
		i = end
	default:
		end := s.valueEnd(i)
		if end > i {
			raw := s.input[i:end]
			tok.Filter = &FilterValue{Raw: raw, Value: raw, Range: Range{Start: i, End: end}}
		}
		i = end
	}

	tok.Range = Range{Start: start, End: i}
	tok.Value = s.input[start:i]
	s.tokens = append(s.tokens, tok)
	s.pos = i
	return true, nil
}

func (s *scanner) scanPattern() {
	start := s.pos
	end := s.valueEnd(start)
	if end == start {
		// Lone character that no other rule consumed
		end = start + 1
	}
	kind := KindPattern
	switch strings.ToLower(s.input[start:end]) {
	case "and", "or", "not":
		kind = KindKeyword
	}
	s.emit(kind, start, end)
}

// valueEnd returns the end of an unquoted run starting at i. The run stops at
// whitespace, or at a ')' that closes an enclosing group.
func (s *scanner) valueEnd(i int) int {
	local := 0
	for i < len(s.input) {
		c := s.input[i]
		if isSpace(c) {
			break
		}
		if c == '(' {
			local++
		} else if c == ')' {
			if local == 0 && s.depth > 0 {
				break
			}
			if local > 0 {
				local--
			}
		}
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isFieldChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_' || c == '.'
}
