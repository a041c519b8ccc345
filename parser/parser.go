package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// commentRe matches both comment forms in one pass, so whichever opens
// first wins: a "/*" inside a line comment is just text.
var commentRe = regexp.MustCompile(`//[^\n]*|/\*[\s\S]*?\*/`)
var multiSpaceRe = regexp.MustCompile(`\s+`)

// ParseError reports the line and token where no directive could match.
type ParseError struct {
	Line  int
	Token string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("line %d: unexpected end of input", e.Line)
	}
	return fmt.Sprintf("line %d: unexpected %q", e.Line, e.Token)
}

type directiveKind int

const (
	dirAssemblies directiveKind = iota
	dirAssembly
	dirTest
	dirClass

	dirHasVirtuals
	dirData
	dirMethods

	dirMember

	dirConstructor
	dirDestructor
	dirStatic
	dirInstance

	dirSymbol
	dirLibrary
)

// Directives of each nesting level, in the order they are tried.
var (
	topDirectives     = []directiveKind{dirAssemblies, dirAssembly, dirTest, dirClass}
	classDirectives   = []directiveKind{dirHasVirtuals, dirData, dirMethods}
	dataDirectives    = []directiveKind{dirMember}
	methodDirectives  = []directiveKind{dirConstructor, dirDestructor, dirStatic, dirInstance}
	symbolDirectives  = []directiveKind{dirSymbol}
	libraryDirectives = []directiveKind{dirLibrary}
)

// target is where the directives of one level store what they parse.
type target struct {
	binding *Binding
	class   *Class
	symbols *Symbols
}

// Parse turns binding description text into a Binding. Parsing stops at the
// first position no directive matches; no partial result is returned.
func Parse(content string) (*Binding, error) {
	content = normalizeNewlines(content)
	content = removeComments(content)

	binding := &Binding{}

	if err := parseLevel(newScanner(content, 1), topDirectives, target{binding: binding}); err != nil {
		return nil, err
	}

	return binding, nil
}

// removeComments blanks comments out while keeping their newlines, so line
// numbers stay correct.
func removeComments(s string) string {
	keepNewlines := func(c string) string {
		return strings.Repeat("\n", strings.Count(c, "\n"))
	}

	return commentRe.ReplaceAllStringFunc(s, keepNewlines)
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	return s
}

func parseLevel(s *scanner, kinds []directiveKind, tgt target) error {
	for s.skipSpace(); !s.eof(); s.skipSpace() {
		matched := false
		for _, kind := range kinds {
			ok, err := match(kind, s, tgt)
			if err != nil {
				return err
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return s.fail()
		}
	}

	return nil
}

// match tries a single directive at the scanner position. The scanner only
// advances when the directive matches as a whole.
func match(kind directiveKind, s *scanner, tgt target) (bool, error) {
	t := *s

	switch kind {
	case dirAssemblies:
		if !t.keyword("assemblies") {
			return false, nil
		}
		t.skipSpace()
		body, line, ok := t.block()
		if !ok {
			return false, nil
		}
		if err := parseLevel(newScanner(body, line), libraryDirectives, tgt); err != nil {
			return false, err
		}

	case dirAssembly:
		if !t.keyword("assembly") {
			return false, nil
		}
		t.skipSpace()
		name, ok := t.quoted()
		if !ok || name == "" {
			return false, nil
		}
		t.skipSpace()
		t.consume(";")
		tgt.binding.Libraries = append(tgt.binding.Libraries, name)

	case dirTest:
		if !t.keyword("test") {
			return false, nil
		}
		t.skipSpace()
		body, line, ok := t.block()
		if !ok {
			return false, nil
		}
		if err := parseLevel(newScanner(body, line), symbolDirectives, target{symbols: &tgt.binding.Probes}); err != nil {
			return false, err
		}

	case dirClass:
		class := Class{Line: t.line}
		if !t.keyword("class") {
			return false, nil
		}
		t.skipSpace()
		name, ok := t.qualifiedName()
		if !ok {
			return false, nil
		}
		class.Name = name
		t.skipSpace()
		if t.consume(":") {
			if class.Inherits, ok = t.baseList(); !ok {
				return false, nil
			}
		}
		t.skipSpace()
		body, line, ok := t.block()
		if !ok {
			return false, nil
		}
		if err := parseLevel(newScanner(body, line), classDirectives, target{class: &class}); err != nil {
			return false, err
		}
		tgt.binding.Classes = append(tgt.binding.Classes, class)

	case dirHasVirtuals:
		if !t.keyword("has_virtuals") {
			return false, nil
		}
		t.skipSpace()
		t.consume(";")
		tgt.class.HasVirtuals = true

	case dirData:
		if !t.keyword("data") {
			return false, nil
		}
		t.skipSpace()
		body, line, ok := t.block()
		if !ok {
			return false, nil
		}
		if err := parseLevel(newScanner(body, line), dataDirectives, tgt); err != nil {
			return false, err
		}

	case dirMethods:
		if !t.keyword("methods") {
			return false, nil
		}
		t.skipSpace()
		body, line, ok := t.block()
		if !ok {
			return false, nil
		}
		if err := parseLevel(newScanner(body, line), methodDirectives, tgt); err != nil {
			return false, err
		}

	case dirMember:
		decl, ok := t.until(';')
		if !ok {
			return false, nil
		}
		typ, name, ok := splitDecl(decl)
		if !ok {
			return false, nil
		}
		t.consume(";")
		tgt.class.Data = append(tgt.class.Data, Member{Type: typ, Name: name})

	case dirConstructor, dirDestructor:
		method := Method{Kind: Constructor, Line: t.line}
		sigil := "!"
		if kind == dirDestructor {
			method.Kind = Destructor
			sigil = "~"
		}
		if !t.consume(sigil) {
			return false, nil
		}
		t.skipSpace()
		if ok, err := methodTail(&t, &method); !ok || err != nil {
			return false, err
		}
		tgt.class.Methods = append(tgt.class.Methods, method)

	case dirStatic, dirInstance:
		method := Method{Kind: Instance, Line: t.line}
		if kind == dirStatic {
			if !t.keyword("static") {
				return false, nil
			}
			method.Kind = Static
			t.skipSpace()
		}
		head, ok := t.until('(')
		if !ok {
			return false, nil
		}
		if method.ReturnType, method.Name, ok = splitDecl(head); !ok {
			return false, nil
		}
		if ok, err := methodTail(&t, &method); !ok || err != nil {
			return false, err
		}
		tgt.class.Methods = append(tgt.class.Methods, method)

	case dirSymbol:
		compiler, ok := t.ident()
		if !ok {
			return false, nil
		}
		t.skipSpace()
		name := t.symbol()
		if name == "" {
			return false, nil
		}
		t.skipSpace()
		if !t.consume(";") {
			return false, nil
		}
		*tgt.symbols = append(*tgt.symbols, Symbol{Compiler: compiler, Name: name})

	case dirLibrary:
		name, ok := t.quoted()
		if !ok {
			name = t.symbol()
		}
		if name == "" {
			return false, nil
		}
		tgt.binding.Libraries = append(tgt.binding.Libraries, name)
		t.consume(";")

	default:
		return false, nil
	}

	*s = t
	return true, nil
}

// methodTail parses the parameter list and the compiler to symbol block
// that follow a method signature. The symbol block is parsed on its own so
// its errors keep their absolute line.
func methodTail(t *scanner, method *Method) (bool, error) {
	if !t.consume("(") {
		return false, nil
	}
	list, ok := t.until(')')
	if !ok {
		return false, nil
	}
	t.consume(")")
	if method.Params, ok = splitParams(list); !ok {
		return false, nil
	}
	t.skipSpace()

	body, line, ok := t.block()
	if !ok {
		return false, nil
	}
	if err := parseLevel(newScanner(body, line), symbolDirectives, target{symbols: &method.Symbols}); err != nil {
		return false, err
	}

	return true, nil
}

// splitDecl splits "<type> <name>" at the trailing identifier.
func splitDecl(decl string) (string, string, bool) {
	decl = strings.TrimSpace(decl)

	i := len(decl)
	for i > 0 && isWord(decl[i-1]) {
		i--
	}
	name := decl[i:]
	typ := cleanType(decl[:i])
	if name == "" || typ == "" || isDigit(name[0]) || !(isWord(typ[0]) && !isDigit(typ[0])) {
		return "", "", false
	}

	return typ, name, true
}

func splitParams(list string) ([]string, bool) {
	list = strings.TrimSpace(list)
	if list == "" || list == "void" {
		return nil, true
	}

	var params []string
	for _, p := range strings.Split(list, ",") {
		p = cleanType(p)
		if p == "" {
			return nil, false
		}
		params = append(params, p)
	}

	return params, true
}

func cleanType(s string) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}
