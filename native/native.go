// Package native loads shared libraries and prepares accessors through
// libffi. It needs libffi to be installed at run time.
package native

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/jupiterrider/ffi"

	"github.com/ardanlabs/cppbind/cdef"
	"github.com/ardanlabs/cppbind/mangle"
)

// Opener loads libraries from the configured directories before falling
// back to the system search rules.
type Opener struct {
	Dirs      []string
	Namespace *cdef.Namespace
}

func NewOpener(ns *cdef.Namespace, dirs ...string) *Opener {
	if ns == nil {
		ns = cdef.Default
	}
	return &Opener{Dirs: dirs, Namespace: ns}
}

func (o *Opener) Open(name string) (cdef.Library, error) {
	var errs []error
	for _, path := range cdef.SearchPaths(name, o.Dirs) {
		lib, err := ffi.Load(path)
		if err == nil {
			return &Library{name: name, lib: lib, ns: o.Namespace}, nil
		}
		errs = append(errs, err)
	}

	return nil, fmt.Errorf("failed to load library %s: %w", name, errors.Join(errs...))
}

// Self opens the running process's own symbol namespace.
func (o *Opener) Self() (cdef.Library, error) {
	lib, err := ffi.Load("")
	if err != nil {
		return nil, fmt.Errorf("failed to open process symbols: %w", err)
	}

	return &Library{name: "<process>", lib: lib, ns: o.Namespace}, nil
}

type Library struct {
	name string
	lib  ffi.Lib
	ns   *cdef.Namespace
}

func (l *Library) Name() string { return l.name }

func (l *Library) Close() error {
	return l.lib.Close()
}

// Resolve looks the declaration's native symbol up and prepares a call
// interface matching its signature.
func (l *Library) Resolve(fn *cdef.Func) (cdef.Callable, error) {
	addr, err := l.lib.Get(fn.Symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Symbol, err)
	}

	rType, err := l.ffiType(fn.Return)
	if err != nil {
		return nil, fmt.Errorf("%s: return type: %w", fn.Name, err)
	}

	aTypes := make([]*ffi.Type, len(fn.Params))
	for i, p := range fn.Params {
		if aTypes[i], err = l.ffiType(p); err != nil {
			return nil, fmt.Errorf("%s: parameter %d: %w", fn.Name, i, err)
		}
	}

	f := &Func{addr: addr}
	if status := ffi.PrepCif(&f.cif, abi(fn.Conv), uint32(len(aTypes)), rType, aTypes...); status != ffi.OK {
		return nil, fmt.Errorf("%s: preparing call interface: status %d", fn.Name, status)
	}

	return f, nil
}

// ffiType maps a declared C type to its libffi description. Classes passed
// by value are described from their layout in the namespace.
func (l *Library) ffiType(typ string) (*ffi.Type, error) {
	if typ == "" {
		return &ffi.TypeVoid, nil
	}

	bare, q := mangle.Split(typ)
	if q.Pointer || q.Reference {
		return &ffi.TypePointer, nil
	}

	switch bare {
	case "void":
		return &ffi.TypeVoid, nil
	case "bool", "unsigned char", "uint8_t":
		return &ffi.TypeUint8, nil
	case "char", "signed char", "int8_t":
		return &ffi.TypeSint8, nil
	case "short", "signed short", "short int", "int16_t":
		return &ffi.TypeSint16, nil
	case "unsigned short", "uint16_t":
		return &ffi.TypeUint16, nil
	case "int", "signed", "signed int", "int32_t":
		return &ffi.TypeSint32, nil
	case "unsigned", "unsigned int", "uint32_t":
		return &ffi.TypeUint32, nil
	case "long long", "signed long long", "int64_t", "ssize_t", "intptr_t", "ptrdiff_t":
		return &ffi.TypeSint64, nil
	case "unsigned long long", "unsigned long long int", "uint64_t", "size_t", "uintptr_t":
		return &ffi.TypeUint64, nil
	case "long", "long int":
		return longType(true), nil
	case "unsigned long", "unsigned long int":
		return longType(false), nil
	case "float":
		return &ffi.TypeFloat, nil
	case "double":
		return &ffi.TypeDouble, nil
	}

	s, ok := l.ns.Struct(cdef.Ident(bare))
	if !ok {
		return nil, fmt.Errorf("unknown type %q", typ)
	}

	elements := make([]*ffi.Type, len(s.Fields))
	for i, f := range s.Fields {
		t, err := l.ffiType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.Name, f.Name, err)
		}
		elements[i] = t
	}
	t := ffi.NewType(elements...)

	return &t, nil
}

// Func is an accessor prepared for calls through libffi.
type Func struct {
	addr uintptr
	cif  ffi.Cif
}

func (f *Func) Addr() uintptr { return f.addr }

// Call invokes the native function. ret points at storage for the result
// (nil for void) and each argument points at its value.
func (f *Func) Call(ret unsafe.Pointer, args ...unsafe.Pointer) {
	ffi.Call(&f.cif, f.addr, ret, args...)
}
