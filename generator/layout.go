package generator

import (
	"runtime"
	"unsafe"

	"github.com/ardanlabs/cppbind/cdef"
	"github.com/ardanlabs/cppbind/mangle"
)

// vtableField is the pointer materialised for classes with virtual methods.
const vtableField = "__vfptr"

const ptrSize = unsafe.Sizeof(uintptr(0))

// InstanceType describes the memory layout of a class so callers can
// allocate receivers for its constructors.
type InstanceType struct {
	Class   string
	Decl    *cdef.Struct
	Size    uintptr
	Align   uintptr
	Offsets map[string]uintptr

	// Opaque is set when a member's size is unknown. Such types can only be
	// handled through pointers obtained from native code.
	Opaque bool
}

// New allocates zeroed storage for one instance.
func (t *InstanceType) New() unsafe.Pointer {
	if t.Opaque {
		return nil
	}

	words := make([]uint64, (t.Size+7)/8)
	return unsafe.Pointer(&words[0])
}

func (t *InstanceType) Offset(field string) (uintptr, bool) {
	off, ok := t.Offsets[field]
	return off, ok
}

// Field returns a pointer to a member of the instance at p.
func (t *InstanceType) Field(p unsafe.Pointer, field string) (unsafe.Pointer, bool) {
	off, ok := t.Offsets[field]
	if !ok || p == nil {
		return nil, false
	}
	return unsafe.Add(p, off), true
}

type structLookup func(name string) (*cdef.Struct, bool)

// measure computes C sizes, alignments and offsets for a struct. Fields of
// struct type are measured through lookup.
func measure(class string, s *cdef.Struct, lookup structLookup) *InstanceType {
	return measureDepth(class, s, lookup, map[string]bool{})
}

func measureDepth(class string, s *cdef.Struct, lookup structLookup, seen map[string]bool) *InstanceType {
	t := &InstanceType{
		Class:   class,
		Decl:    s,
		Align:   1,
		Offsets: make(map[string]uintptr, len(s.Fields)),
	}

	seen[s.Name] = true
	defer delete(seen, s.Name)

	var off uintptr
	for _, f := range s.Fields {
		size, align, ok := sizeOf(f.Type, lookup, seen)
		if !ok {
			t.Opaque = true
			t.Size = 0
			return t
		}

		off = alignUp(off, align)
		t.Offsets[f.Name] = off
		off += size
		if align > t.Align {
			t.Align = align
		}
	}

	// Empty classes still occupy a byte.
	if off == 0 {
		off = 1
	}
	t.Size = alignUp(off, t.Align)

	return t
}

func sizeOf(typ string, lookup structLookup, seen map[string]bool) (uintptr, uintptr, bool) {
	bare, q := mangle.Split(typ)
	if q.Pointer || q.Reference {
		return ptrSize, ptrSize, true
	}

	switch bare {
	case "bool", "char", "signed char", "unsigned char", "int8_t", "uint8_t":
		return 1, 1, true
	case "short", "signed short", "short int", "unsigned short", "int16_t", "uint16_t":
		return 2, 2, true
	case "int", "signed", "signed int", "unsigned", "unsigned int", "int32_t", "uint32_t", "float":
		return 4, 4, true
	case "long long", "signed long long", "unsigned long long", "unsigned long long int",
		"int64_t", "uint64_t", "double":
		return 8, 8, true
	case "long", "unsigned long", "long int", "unsigned long int":
		if runtime.GOOS == "windows" {
			return 4, 4, true
		}
		return ptrSize, ptrSize, true
	case "size_t", "ssize_t", "intptr_t", "uintptr_t", "ptrdiff_t":
		return ptrSize, ptrSize, true
	}

	name := cdef.Ident(bare)
	if seen[name] {
		return 0, 0, false
	}
	s, ok := lookup(name)
	if !ok {
		return 0, 0, false
	}
	inner := measureDepth(name, s, lookup, seen)
	if inner.Opaque {
		return 0, 0, false
	}

	return inner.Size, inner.Align, true
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

func hasVTable(fields []cdef.Field) bool {
	for _, f := range fields {
		if f.Name == vtableField {
			return true
		}
	}
	return false
}
