package loader

import (
	"fmt"
	"strings"
)

// DisplayName derives an entry name: the file name without its extension
// when one is known, else the last path segment of source without its
// extension, else "Model N" where n is the number of entries already loaded.
func DisplayName(source, fileName string, n int) string {
	if fileName != "" {
		if name := stripExt(fileName); name != "" {
			return name
		}
	}
	if strings.Contains(source, "/") {
		if i := strings.IndexAny(source, "?#"); i >= 0 {
			source = source[:i]
		}
		parts := strings.Split(source, "/")
		if name := stripExt(parts[len(parts)-1]); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Model %d", n+1)
}

// stripExt removes a trailing ".ext" that contains no dot or slash.
func stripExt(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || strings.ContainsAny(name[i+1:], "/") || i == len(name)-1 {
		return name
	}
	return name[:i]
}
