package utils

import (
	"path/filepath"
	"strings"
)

// Extension returns the lower-cased extension of filename, treating a
// trailing ".gz" as part of a compound extension (".csv.gz").
func Extension(filename string) string {
	name := strings.ToLower(filepath.Base(filename))
	ext := filepath.Ext(name)
	if ext == ".gz" {
		inner := filepath.Ext(strings.TrimSuffix(name, ext))
		return inner + ext
	}
	return ext
}

func HasExtension(filename string, exts ...string) bool {
	got := Extension(filename)
	for _, e := range exts {
		if got == e {
			return true
		}
	}
	return false
}
