package generator

import (
	"sort"

	"github.com/ardanlabs/cppbind/cdef"
)

// SymbolTable is the result of generating a binding: resolved accessors by
// name and instance types by class name.
type SymbolTable struct {
	Compiler string
	Library  string
	Funcs    map[string]cdef.Callable
	Decls    map[string]*cdef.Func
	Types    map[string]*InstanceType
}

func newSymbolTable(compiler, library string) *SymbolTable {
	return &SymbolTable{
		Compiler: compiler,
		Library:  library,
		Funcs:    make(map[string]cdef.Callable),
		Decls:    make(map[string]*cdef.Func),
		Types:    make(map[string]*InstanceType),
	}
}

func (t *SymbolTable) Func(name string) (cdef.Callable, bool) {
	f, ok := t.Funcs[name]
	return f, ok
}

func (t *SymbolTable) Type(class string) (*InstanceType, bool) {
	it, ok := t.Types[class]
	return it, ok
}

// Names returns the resolved accessor names in sorted order.
func (t *SymbolTable) Names() []string {
	names := make([]string, 0, len(t.Funcs))
	for name := range t.Funcs {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
