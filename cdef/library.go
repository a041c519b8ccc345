package cdef

import (
	"io"
	"unsafe"
)

// Callable is a resolved native entry point.
type Callable interface {
	Addr() uintptr
	Call(ret unsafe.Pointer, args ...unsafe.Pointer)
}

// Library is a loaded shared library. Resolve reports failure as an error
// instead of faulting, so probing a symbol is an ordinary call.
type Library interface {
	Name() string
	Resolve(fn *Func) (Callable, error)
}

// Opener loads libraries by name, applying the platform's naming rules.
// Self returns the symbols of the running process.
type Opener interface {
	Open(name string) (Library, error)
	Self() (Library, error)
}

// Release closes lib when it holds a native handle. Libraries without one
// are left alone.
func Release(lib Library) error {
	if c, ok := lib.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
