package cdef

import "strings"

// ABI is the symbol and calling-convention scheme of a compiler family.
type ABI int

const (
	Itanium ABI = iota
	MSVC
)

func (a ABI) String() string {
	if a == MSVC {
		return "msvc"
	}
	return "itanium"
}

// ABIFor maps a free-form compiler id from a binding to its family.
func ABIFor(compiler string) ABI {
	id := strings.ToLower(compiler)

	switch {
	case id == "msvc", id == "vc", id == "cl", strings.HasPrefix(id, "msvc"), strings.HasPrefix(id, "vs"):
		return MSVC
	default:
		return Itanium
	}
}

// MemberConv is the convention used to pass the receiver of constructors,
// destructors and instance methods.
func (a ABI) MemberConv() CallConv {
	if a == MSVC {
		return Thiscall
	}
	return Cdecl
}
