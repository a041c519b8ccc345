package cdef

import (
	"fmt"
	"strings"

	"github.com/puzpuzpuz/xsync"
)

// NamespaceConflictError reports a name declared twice with different
// shapes. It leaves the namespace inconsistent with the caller's view and
// must not be ignored.
type NamespaceConflictError struct {
	Name     string
	Existing string
	New      string
}

func (e *NamespaceConflictError) Error() string {
	return fmt.Sprintf("namespace conflict: %s is already declared as:\n%s", e.Name, strings.TrimSpace(e.Existing))
}

// Namespace holds every C declaration generated so far. Declaring a name
// again with the same shape is a no-op.
type Namespace struct {
	mu    xsync.RBMutex
	decls map[string]Decl
	order []string
}

func NewNamespace() *Namespace {
	return &Namespace{decls: make(map[string]Decl)}
}

// Default is the process-wide namespace.
var Default = NewNamespace()

func (n *Namespace) Declare(d Decl) error {
	name := d.DeclName()

	n.mu.Lock()
	defer n.mu.Unlock()

	if prev, ok := n.decls[name]; ok {
		if prev.C() != d.C() {
			return &NamespaceConflictError{Name: name, Existing: prev.C(), New: d.C()}
		}
		return nil
	}

	n.decls[name] = d
	n.order = append(n.order, name)

	return nil
}

func (n *Namespace) Lookup(name string) (Decl, bool) {
	tk := n.mu.RLock()
	d, ok := n.decls[name]
	n.mu.RUnlock(tk)

	return d, ok
}

// Struct returns the struct declared under name.
func (n *Namespace) Struct(name string) (*Struct, bool) {
	d, ok := n.Lookup(name)
	if !ok {
		return nil, false
	}
	s, ok := d.(*Struct)
	return s, ok
}

func (n *Namespace) Len() int {
	tk := n.mu.RLock()
	defer n.mu.RUnlock(tk)

	return len(n.order)
}

// Source renders every declaration in the order it was declared.
func (n *Namespace) Source() string {
	tk := n.mu.RLock()
	defer n.mu.RUnlock(tk)

	var b strings.Builder
	for _, name := range n.order {
		b.WriteString(n.decls[name].C())
	}

	return b.String()
}
