// Package project locates the enclosing Go project and reads its
// module identity. The project root anchors waiver registry
// discovery, decision-record resolution, and the snapshot database.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// ErrNoRoot reports that no go.mod was found walking upward from the
// start path.
var ErrNoRoot = errors.New("no project root found")

// Info identifies the enclosing project.
type Info struct {
	Root       string `json:"root"`
	ModulePath string `json:"module_path"`
}

// FindRoot walks upward from start until it finds a directory
// containing go.mod.
func FindRoot(start string) (string, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving start path: %w", err)
	}
	if info, err := os.Stat(current); err == nil && !info.IsDir() {
		current = filepath.Dir(current)
	}

	for {
		if _, err := os.Stat(filepath.Join(current, "go.mod")); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w: searched from %s", ErrNoRoot, start)
		}
		current = parent
	}
}

// Load finds the project root and parses its module path.
func Load(start string) (Info, error) {
	root, err := FindRoot(start)
	if err != nil {
		return Info{}, err
	}

	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return Info{}, fmt.Errorf("reading go.mod: %w", err)
	}

	path := modfile.ModulePath(data)
	if path == "" {
		return Info{}, fmt.Errorf("go.mod at %s has no module directive", root)
	}

	return Info{Root: root, ModulePath: path}, nil
}

// skipDirs are directories never walked for analysis subjects.
var skipDirs = map[string]bool{
	".git":         true,
	"vendor":       true,
	"node_modules": true,
	"testdata":     true,
}

// GoFiles lists the project's non-test Go source files relative to
// the root, in walk order.
func GoFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if skipDirs[name] || (strings.HasPrefix(name, "_") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking project: %w", err)
	}
	return files, nil
}
