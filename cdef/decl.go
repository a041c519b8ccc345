// Package cdef models the C declarations generated for a binding and the
// namespace they are registered in.
package cdef

import (
	"fmt"
	"strings"
)

// CallConv is the calling convention of a generated accessor.
type CallConv int

const (
	Cdecl CallConv = iota
	Thiscall
)

func (c CallConv) String() string {
	switch c {
	case Cdecl:
		return "__cdecl"
	case Thiscall:
		return "__thiscall"
	default:
		return "unknown"
	}
}

// Decl is one entry of the C declaration stream. Two declarations have the
// same shape when their C text is identical.
type Decl interface {
	DeclName() string
	C() string
}

type Field struct {
	Type string
	Name string
}

// Struct is the C layout of a class.
type Struct struct {
	Name   string
	Fields []Field
}

func (s *Struct) DeclName() string { return s.Name }

func (s *Struct) C() string {
	var b strings.Builder

	fmt.Fprintf(&b, "typedef struct %s {\n", s.Name)
	for _, f := range s.Fields {
		fmt.Fprintf(&b, "\t%s %s;\n", TypeName(f.Type), f.Name)
	}
	if len(s.Fields) == 0 {
		b.WriteString("\tchar __empty;\n")
	}
	fmt.Fprintf(&b, "} %s;\n", s.Name)

	return b.String()
}

// Func binds an accessor name to a native symbol. Params include the
// receiver for constructors, destructors and instance methods.
type Func struct {
	Name   string
	Symbol string
	Conv   CallConv
	Return string
	Params []string
}

func (f *Func) DeclName() string { return f.Name }

func (f *Func) C() string {
	var b strings.Builder

	ret := "void"
	if f.Return != "" {
		ret = TypeName(f.Return)
	}
	b.WriteString(ret)
	b.WriteByte(' ')
	if f.Conv == Thiscall {
		b.WriteString("__thiscall ")
	}
	b.WriteString(f.Name)

	if len(f.Params) == 0 {
		b.WriteString("(void)")
	} else {
		params := make([]string, len(f.Params))
		for i, p := range f.Params {
			params[i] = TypeName(p)
		}
		fmt.Fprintf(&b, "(%s)", strings.Join(params, ", "))
	}
	fmt.Fprintf(&b, " __asm__(%q);\n", f.Symbol)

	return b.String()
}

// Ident makes a C++ qualified name usable as a C identifier.
func Ident(name string) string {
	name = strings.ReplaceAll(name, "::", "_")

	return strings.Map(func(r rune) rune {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name)
}

// TypeName renders a declared C++ type as C. References are passed as
// pointers.
func TypeName(t string) string {
	t = strings.ReplaceAll(t, "::", "_")
	t = strings.ReplaceAll(t, "&", "*")

	return strings.Join(strings.Fields(t), " ")
}
