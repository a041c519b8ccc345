package parser

import "strings"

type MethodKind int

const (
	Constructor MethodKind = iota
	Destructor
	Instance
	Static
)

func (k MethodKind) String() string {
	switch k {
	case Constructor:
		return "constructor"
	case Destructor:
		return "destructor"
	case Instance:
		return "method"
	case Static:
		return "static method"
	default:
		return "unknown"
	}
}

// Symbol maps one compiler id to a native symbol name.
type Symbol struct {
	Compiler string
	Name     string
}

// Symbols keeps compiler entries in declaration order.
type Symbols []Symbol

// Lookup returns the symbol declared for compiler. Compiler ids compare
// case-insensitively.
func (s Symbols) Lookup(compiler string) (string, bool) {
	for _, sym := range s {
		if strings.EqualFold(sym.Compiler, compiler) {
			return sym.Name, true
		}
	}
	return "", false
}

type Member struct {
	Type string
	Name string
}

type Method struct {
	Kind       MethodKind
	Name       string
	ReturnType string
	Params     []string
	Symbols    Symbols
	Line       int
}

type Class struct {
	Name        string
	Inherits    []string
	HasVirtuals bool
	Data        []Member
	Methods     []Method
	Line        int
}

// Count returns how many methods of the given kind the class declares.
func (c *Class) Count(kind MethodKind) int {
	var n int
	for _, m := range c.Methods {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

type Binding struct {
	Libraries []string
	Probes    Symbols
	Classes   []Class
}

// Class returns the class with the given name.
func (b *Binding) Class(name string) (*Class, bool) {
	for i := range b.Classes {
		if b.Classes[i].Name == name {
			return &b.Classes[i], true
		}
	}
	return nil, false
}
