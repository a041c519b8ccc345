package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// scanner is a cursor over one nesting level of binding text. line is the
// absolute line of the cursor in the whole input.
type scanner struct {
	src  string
	pos  int
	line int
}

var accessSpecifiers = []string{"public", "protected", "private"}

func newScanner(src string, line int) *scanner {
	return &scanner{src: src, line: line}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) rest() string {
	return s.src[s.pos:]
}

func (s *scanner) advance(n int) {
	if s.pos+n > len(s.src) {
		n = len(s.src) - s.pos
	}
	s.line += strings.Count(s.src[s.pos:s.pos+n], "\n")
	s.pos += n
}

func (s *scanner) skipSpace() {
	rest := s.rest()
	s.advance(len(rest) - len(strings.TrimLeftFunc(rest, unicode.IsSpace)))
}

func (s *scanner) fail() error {
	return &ParseError{Line: s.line, Token: s.token()}
}

// token is the longest word run at the cursor, or the single character
// there when it is not a word character.
func (s *scanner) token() string {
	rest := s.rest()
	if rest == "" {
		return ""
	}

	n := 0
	for n < len(rest) && isWord(rest[n]) {
		n++
	}
	if n == 0 {
		_, n = utf8.DecodeRuneInString(rest)
	}

	return rest[:n]
}

func (s *scanner) consume(lit string) bool {
	if !strings.HasPrefix(s.rest(), lit) {
		return false
	}
	s.advance(len(lit))
	return true
}

func (s *scanner) keyword(kw string) bool {
	rest := s.rest()
	if !strings.HasPrefix(rest, kw) {
		return false
	}
	if len(rest) > len(kw) && isWord(rest[len(kw)]) {
		return false
	}
	s.advance(len(kw))
	return true
}

func (s *scanner) ident() (string, bool) {
	rest := s.rest()
	if rest == "" || !isWord(rest[0]) || isDigit(rest[0]) {
		return "", false
	}

	n := 1
	for n < len(rest) && isWord(rest[n]) {
		n++
	}
	s.advance(n)

	return rest[:n], true
}

// qualifiedName reads an identifier that may carry "::" separators.
func (s *scanner) qualifiedName() (string, bool) {
	var b strings.Builder
	for {
		id, ok := s.ident()
		if !ok {
			return "", false
		}
		b.WriteString(id)
		if !s.consume("::") {
			return b.String(), true
		}
		b.WriteString("::")
	}
}

func (s *scanner) baseList() ([]string, bool) {
	var bases []string
	for {
		s.skipSpace()
		for _, access := range accessSpecifiers {
			if s.keyword(access) {
				s.skipSpace()
				break
			}
		}

		name, ok := s.qualifiedName()
		if !ok {
			return nil, false
		}
		bases = append(bases, name)

		s.skipSpace()
		if !s.consume(",") {
			return bases, true
		}
	}
}

func (s *scanner) quoted() (string, bool) {
	rest := s.rest()
	if !strings.HasPrefix(rest, `"`) {
		return "", false
	}
	end := strings.IndexAny(rest[1:], "\"\n")
	if end < 0 || rest[1+end] != '"' {
		return "", false
	}
	s.advance(end + 2)

	return rest[1 : 1+end], true
}

// until returns the text before delim without consuming the delimiter. It
// gives up at any structural character other than delim.
func (s *scanner) until(delim byte) (string, bool) {
	rest := s.rest()
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c == delim {
			s.advance(i)
			return rest[:i], true
		}
		if strings.IndexByte("{}();", c) >= 0 {
			return "", false
		}
	}
	return "", false
}

// symbol reads a raw native symbol or library name.
func (s *scanner) symbol() string {
	rest := s.rest()
	n := strings.IndexFunc(rest, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(`;{}"`, r)
	})
	if n < 0 {
		n = len(rest)
	}
	s.advance(n)

	return rest[:n]
}

// block isolates a balanced brace span starting at the cursor. It returns
// the text between the braces and the line that text starts on.
func (s *scanner) block() (string, int, bool) {
	rest := s.rest()
	if !strings.HasPrefix(rest, "{") {
		return "", 0, false
	}

	depth := 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				line := s.line
				s.advance(i + 1)
				return rest[1:i], line, true
			}
		}
	}

	return "", 0, false
}

func isWord(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
