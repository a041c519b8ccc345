//go:build !windows

package native

import "github.com/jupiterrider/ffi"

func longType(signed bool) *ffi.Type {
	if signed {
		return &ffi.TypeSint64
	}
	return &ffi.TypeUint64
}
