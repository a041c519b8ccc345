package generator

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ardanlabs/cppbind/cdef"
	"github.com/ardanlabs/cppbind/mangle"
	"github.com/ardanlabs/cppbind/parser"
)

// Generator derives C declarations from a binding and registers them in a
// namespace. Layouts declared by earlier runs stay available as bases.
type Generator struct {
	ns  *cdef.Namespace
	log *zap.Logger
}

type Option func(*Generator)

func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

func New(ns *cdef.Namespace, opts ...Option) *Generator {
	if ns == nil {
		ns = cdef.Default
	}

	g := &Generator{
		ns:  ns,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// classPlan is everything generated for one class before it is declared.
type classPlan struct {
	class  *parser.Class
	layout *cdef.Struct
	funcs  []*cdef.Func
}

// Generate declares the binding's layouts and accessors for compiler and
// resolves each accessor in lib. Accessors that fail to resolve are left
// out of the table.
func (g *Generator) Generate(b *parser.Binding, compiler string, lib cdef.Library) (*SymbolTable, error) {
	plans, err := g.plan(b, compiler)
	if err != nil {
		return nil, err
	}

	table := newSymbolTable(compiler, lib.Name())

	for _, p := range plans {
		if err := g.ns.Declare(p.layout); err != nil {
			return nil, err
		}
		table.Types[p.class.Name] = measure(p.class.Name, p.layout, g.ns.Struct)

		for _, fn := range p.funcs {
			if err := g.ns.Declare(fn); err != nil {
				return nil, err
			}

			callable, err := lib.Resolve(fn)
			if err != nil {
				g.log.Warn("accessor did not resolve",
					zap.String("class", p.class.Name),
					zap.String("accessor", fn.Name),
					zap.String("symbol", fn.Symbol),
					zap.String("library", lib.Name()),
					zap.Error(err))
				continue
			}

			table.Funcs[fn.Name] = callable
			table.Decls[fn.Name] = fn
		}
	}

	return table, nil
}

// Declarations returns the declaration stream for compiler without touching
// the namespace or any library. Bases outside the binding are read from the
// namespace.
func (g *Generator) Declarations(b *parser.Binding, compiler string) ([]cdef.Decl, error) {
	plans, err := g.plan(b, compiler)
	if err != nil {
		return nil, err
	}

	var decls []cdef.Decl
	for _, p := range plans {
		decls = append(decls, p.layout)
		for _, fn := range p.funcs {
			decls = append(decls, fn)
		}
	}

	return decls, nil
}

// Header renders declarations as a C header.
func Header(decls []cdef.Decl) string {
	var buf strings.Builder

	buf.WriteString("#include <stdint.h>\n")
	for i, d := range decls {
		if _, ok := d.(*cdef.Struct); ok || i == 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(d.C())
	}

	return buf.String()
}

func (g *Generator) plan(b *parser.Binding, compiler string) ([]classPlan, error) {
	classes, err := order(b)
	if err != nil {
		return nil, err
	}

	layouts := make(map[string]*cdef.Struct, len(classes))
	lookup := func(name string) (*cdef.Struct, bool) {
		if s, ok := layouts[name]; ok {
			return s, true
		}
		return g.ns.Struct(name)
	}

	plans := make([]classPlan, 0, len(classes))
	for _, c := range classes {
		layout, err := classLayout(c, lookup)
		if err != nil {
			return nil, err
		}
		layouts[layout.Name] = layout

		plans = append(plans, classPlan{
			class:  c,
			layout: layout,
			funcs:  g.accessors(c, layout.Name, compiler),
		})
	}

	return plans, nil
}

// classLayout concatenates the base layouts, the vtable pointer when the
// class has virtuals and no base supplied one, and the data members.
func classLayout(c *parser.Class, lookup structLookup) (*cdef.Struct, error) {
	var fields []cdef.Field

	for _, base := range c.Inherits {
		s, ok := lookup(cdef.Ident(base))
		if !ok {
			return nil, &UnknownBaseClassError{Class: c.Name, Base: base}
		}
		fields = append(fields, s.Fields...)
	}

	if c.HasVirtuals && !hasVTable(fields) {
		fields = append(fields, cdef.Field{Type: "void*", Name: vtableField})
	}

	for _, m := range c.Data {
		fields = append(fields, cdef.Field{Type: m.Type, Name: m.Name})
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			return nil, &DuplicateFieldError{Class: c.Name, Field: f.Name}
		}
		seen[f.Name] = true
	}

	return &cdef.Struct{Name: cdef.Ident(c.Name), Fields: fields}, nil
}

func (g *Generator) accessors(c *parser.Class, structName, compiler string) []*cdef.Func {
	abi := cdef.ABIFor(compiler)
	self := structName + "*"

	var funcs []*cdef.Func
	for _, m := range c.Methods {
		role := Role(m)

		symbol, ok := m.Symbols.Lookup(compiler)
		if !ok {
			g.log.Warn("skipping overload",
				zap.String("class", c.Name),
				zap.String("method", role),
				zap.Strings("params", m.Params),
				zap.String("compiler", compiler),
				zap.Error(ErrMissingOverloadSymbol))
			continue
		}

		fn := &cdef.Func{
			Name:   AccessorName(structName, role, m.Params),
			Symbol: symbol,
		}

		switch m.Kind {
		case parser.Constructor:
			fn.Conv = abi.MemberConv()
			fn.Return = self
			fn.Params = withReceiver(self, m.Params)
		case parser.Destructor:
			fn.Conv = abi.MemberConv()
			fn.Return = "void"
			fn.Params = withReceiver(self, m.Params)
		case parser.Instance:
			fn.Conv = abi.MemberConv()
			fn.Return = m.ReturnType
			fn.Params = withReceiver(self, m.Params)
		case parser.Static:
			fn.Conv = cdef.Cdecl
			fn.Return = m.ReturnType
			fn.Params = append([]string(nil), m.Params...)
		}

		funcs = append(funcs, fn)
	}

	return funcs
}

func withReceiver(self string, params []string) []string {
	return append([]string{self}, params...)
}

// Role is the accessor role of a method: C for constructors, D for
// destructors, otherwise the method name.
func Role(m parser.Method) string {
	switch m.Kind {
	case parser.Constructor:
		return "C"
	case parser.Destructor:
		return "D"
	default:
		return m.Name
	}
}

// AccessorName builds <Class>__<Role>_<Suffix>.
func AccessorName(class, role string, params []string) string {
	return fmt.Sprintf("%s__%s_%s", cdef.Ident(class), role, cdef.Ident(mangle.Suffix(params)))
}

// order sorts classes so every base in the binding precedes the classes
// deriving from it. Otherwise binding order is kept.
func order(b *parser.Binding) ([]*parser.Class, error) {
	const (
		visiting = 1
		done     = 2
	)

	byName := make(map[string]*parser.Class, len(b.Classes))
	for i := range b.Classes {
		c := &b.Classes[i]
		if prev, ok := byName[c.Name]; ok {
			return nil, &cdef.NamespaceConflictError{
				Name:     c.Name,
				Existing: fmt.Sprintf("class %s (line %d)", prev.Name, prev.Line),
				New:      fmt.Sprintf("class %s (line %d)", c.Name, c.Line),
			}
		}
		byName[c.Name] = c
	}

	state := make(map[string]int, len(b.Classes))
	sorted := make([]*parser.Class, 0, len(b.Classes))

	var visit func(c *parser.Class, path []string) error
	visit = func(c *parser.Class, path []string) error {
		switch state[c.Name] {
		case done:
			return nil
		case visiting:
			return &CyclicInheritanceError{Classes: append(path, c.Name)}
		}

		state[c.Name] = visiting
		for _, base := range c.Inherits {
			if bc, ok := byName[base]; ok {
				if err := visit(bc, append(path, c.Name)); err != nil {
					return err
				}
			}
		}
		state[c.Name] = done
		sorted = append(sorted, c)

		return nil
	}

	for i := range b.Classes {
		if err := visit(&b.Classes[i], nil); err != nil {
			return nil, err
		}
	}

	return sorted, nil
}
