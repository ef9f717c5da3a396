package utils

import (
	"os"
	"path/filepath"
)

var AssetsPath string

// ResolveAssetPath looks for relPath in the working directory, then in
// ./assets, then in AssetsPath. Returns "" when nothing exists.
func ResolveAssetPath(relPath string) string {
	if relPath == "" {
		return ""
	}

	if filepath.IsAbs(relPath) {
		if _, err := os.Stat(relPath); err == nil {
			return relPath
		}
		return ""
	}

	searchPaths := []string{
		relPath,
		filepath.Join("assets", relPath),
	}
	if AssetsPath != "" {
		searchPaths = append(searchPaths, filepath.Join(AssetsPath, relPath))
	}

	for _, p := range searchPaths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}

	return ""
}
