//go:build !windows

package native

import "golang.org/x/sys/unix"

// CString returns a NUL-terminated copy of s for const char* parameters.
func CString(s string) (*byte, error) {
	return unix.BytePtrFromString(s)
}

// GoString copies a NUL-terminated C string returned by native code.
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	return unix.BytePtrToString(p)
}
