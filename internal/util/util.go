package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PathUnder reports whether path equals root or is nested somewhere below
// it. Both dot-joined member paths and slash-joined package paths count as
// nesting separators.
func PathUnder(path, root string) bool {
	if path == "" || root == "" {
		return path == root
	}
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+"/") || strings.HasPrefix(path, root+".")
}

// SortedStringKeys returns the map's keys in sorted order.
func SortedStringKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WriteFileWithDirs creates parent directories (0755) and writes the file
// with perm.
func WriteFileWithDirs(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, perm)
}

// WriteStringWithDirs writes string content with parent directories created.
func WriteStringWithDirs(path, content string, perm fs.FileMode) error {
	return WriteFileWithDirs(path, []byte(content), perm)
}
