// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// .php files found recursively under the given directory. Non-pattern
// arguments pass through unchanged. Paths matching an exclude pattern are
// dropped.
func expandArgs(args, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findPHPFiles(dir)
			if err != nil {
				return nil, errors.Wrapf(err, "expanding %s", arg)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return filterExcludes(out, excludes), nil
}

func findPHPFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".php" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes returns the paths that match none of excludes.
func filterExcludes(paths, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, path := range paths {
		if !matchesAny(path, excludes) {
			out = append(out, path)
		}
	}
	return out
}

// matchesAny reports whether path, its base name or any of its directory
// components matches one of patterns.
func matchesAny(path string, patterns []string) bool {
	components := splitPath(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		for _, c := range components {
			if ok, _ := filepath.Match(pattern, c); ok {
				return true
			}
		}
	}
	return false
}

func splitPath(path string) []string {
	return strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
}
