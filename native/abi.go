package native

import (
	"github.com/jupiterrider/ffi"

	"github.com/ardanlabs/cppbind/cdef"
)

// abi picks the libffi ABI for a calling convention. libffi is only used on
// 64-bit targets, where a thiscall receiver travels as the first integer
// argument exactly like a cdecl one.
func abi(cdef.CallConv) ffi.Abi {
	return ffi.DefaultAbi
}
