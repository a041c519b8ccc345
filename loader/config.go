package loader

import (
	"path/filepath"
	"strings"

	"github.com/xyproto/env/v2"
)

// Config holds the settings read from the environment.
type Config struct {
	// LibraryPath lists directories searched before the system rules.
	LibraryPath []string

	// Libraries are opened and tried ahead of a binding's own candidates.
	Libraries []string

	// Compiler restricts detection to one compiler id.
	Compiler string

	Debug bool
}

func ConfigFromEnv() Config {
	return Config{
		LibraryPath: splitPathList(env.Str("CPPBIND_LIBRARY_PATH")),
		Libraries:   splitNames(env.Str("CPPBIND_LIBRARY")),
		Compiler:    strings.TrimSpace(env.Str("CPPBIND_COMPILER")),
		Debug:       env.Bool("CPPBIND_DEBUG"),
	}
}

func splitPathList(s string) []string {
	var dirs []string
	for _, dir := range filepath.SplitList(s) {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func splitNames(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
