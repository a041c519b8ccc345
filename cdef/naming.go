package cdef

import (
	"path/filepath"
	"runtime"
	"strings"
)

// FileName applies the platform prefix and suffix to a library name. Names
// that already look like paths or file names are returned unchanged.
func FileName(name, goos string) string {
	if strings.ContainsAny(name, `/\`) || filepath.Ext(name) != "" {
		return name
	}

	switch goos {
	case "darwin", "ios":
		return "lib" + name + ".dylib"
	case "windows":
		return name + ".dll"
	default:
		return "lib" + name + ".so"
	}
}

// SearchPaths lists where a library is looked for: each directory in dirs,
// then the bare file name left to the system loader.
func SearchPaths(name string, dirs []string) []string {
	file := FileName(name, runtime.GOOS)
	if filepath.IsAbs(file) || strings.ContainsAny(file, `/\`) {
		return []string{file}
	}

	paths := make([]string, 0, len(dirs)+1)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		paths = append(paths, filepath.Join(dir, file))
	}

	return append(paths, file)
}
