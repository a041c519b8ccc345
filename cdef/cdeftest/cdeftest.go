// Package cdeftest provides in-memory libraries for tests that exercise
// symbol resolution without loading native code.
package cdeftest

import (
	"fmt"
	"unsafe"

	"github.com/ardanlabs/cppbind/cdef"
)

// Func is a resolved fake entry point. Calls are recorded, not executed.
type Func struct {
	Decl  *cdef.Func
	addr  uintptr
	Calls int
}

func (f *Func) Addr() uintptr { return f.addr }

func (f *Func) Call(ret unsafe.Pointer, args ...unsafe.Pointer) { f.Calls++ }

// Library exports a fixed set of symbols. Closed is set once Close runs.
type Library struct {
	LibName  string
	Exports  map[string]bool
	Resolved []string
	Closed   bool
}

func NewLibrary(name string, symbols ...string) *Library {
	lib := &Library{LibName: name, Exports: make(map[string]bool)}
	for _, s := range symbols {
		lib.Exports[s] = true
	}
	return lib
}

func (l *Library) Name() string { return l.LibName }

func (l *Library) Close() error {
	if l.Closed {
		return fmt.Errorf("%s: closed twice", l.LibName)
	}
	l.Closed = true
	return nil
}

func (l *Library) Resolve(fn *cdef.Func) (cdef.Callable, error) {
	l.Resolved = append(l.Resolved, fn.Symbol)

	if !l.Exports[fn.Symbol] {
		return nil, fmt.Errorf("%s: undefined symbol %s", l.LibName, fn.Symbol)
	}

	return &Func{Decl: fn, addr: uintptr(len(l.Resolved))}, nil
}

// Opener serves libraries from a map and records every open attempt.
type Opener struct {
	Libraries map[string]*Library
	Process   *Library
	Opened    []string
}

func (o *Opener) Open(name string) (cdef.Library, error) {
	o.Opened = append(o.Opened, name)

	lib, ok := o.Libraries[name]
	if !ok {
		return nil, fmt.Errorf("cannot open %s", cdef.FileName(name, "linux"))
	}
	return lib, nil
}

func (o *Opener) Self() (cdef.Library, error) {
	o.Opened = append(o.Opened, "")

	if o.Process == nil {
		return nil, fmt.Errorf("no process symbols")
	}
	return o.Process, nil
}
