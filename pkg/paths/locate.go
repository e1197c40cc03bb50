package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MacroPower/cordova-set-version/pkg/cdverrors"
)

const (
	// DefaultConfigName is the name of a Cordova project's XML config.
	DefaultConfigName = "config.xml"

	// DefaultManifestName is the name of the JSON package manifest.
	DefaultManifestName = "package.json"
)

// ResolveConfig returns path, or [DefaultConfigName] when path is empty.
func ResolveConfig(path string) string {
	if path == "" {
		return DefaultConfigName
	}

	return path
}

// ManifestFor returns the path of the manifest that accompanies the config at
// configPath, which is the [DefaultManifestName] in the same directory.
func ManifestFor(configPath string) string {
	return filepath.Join(filepath.Dir(ResolveConfig(configPath)), DefaultManifestName)
}

// FindConfig returns the closest (innermost) [DefaultConfigName] file for the
// provided path, searching bottom-up from path toward root. An empty root
// means the filesystem root. Returns [cdverrors.ErrFileNotFound] when no
// directory in between contains a config, and
// [cdverrors.ErrResolvedOutsideRoot] when path is not inside root.
func FindConfig(root, path string) (string, error) {
	if root == "" {
		root = string(filepath.Separator)
	}

	dir, err := findClosestFile(root, path, func(s string) (bool, error) {
		checkPath := filepath.Join(s, DefaultConfigName)

		fi, err := os.Lstat(checkPath)
		if err != nil {
			return false, fmt.Errorf("%s: %w", checkPath, err)
		}

		return !fi.IsDir(), nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", DefaultConfigName, err)
	}

	return filepath.Join(dir, DefaultConfigName), nil
}

// findClosestFile walks from path upward toward root, returning the first
// directory where test returns true.
func findClosestFile(root, path string, test func(string) (bool, error)) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	if !isWithin(rootAbs, pathAbs) {
		return "", cdverrors.ErrResolvedOutsideRoot
	}

	currentDir := pathAbs
	for {
		match, err := test(currentDir)
		if err == nil && match {
			return currentDir, nil
		}

		if currentDir == rootAbs {
			break
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", cdverrors.ErrFileNotFound
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
