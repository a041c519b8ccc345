package native

import "github.com/jupiterrider/ffi"

// long is 32 bits under the LLP64 model.
func longType(signed bool) *ffi.Type {
	if signed {
		return &ffi.TypeSint32
	}
	return &ffi.TypeUint32
}
