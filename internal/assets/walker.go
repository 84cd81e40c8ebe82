// Package assets discovers the files placed under a project's asset directory.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// List recursively enumerates every file under dir and returns paths
// relative to dir, joined with "/" on every platform.
//
// Entries whose name starts with "." are skipped at every depth; a dot
// directory is never descended. A missing dir is not an error and yields an
// empty slice. Symlinks are reported as files and never followed.
func List(dir string) ([]string, error) {
	return ListFS(os.DirFS(dir))
}

// ListFS is List over an arbitrary file system rooted at its top directory.
func ListFS(fsys fs.FS) ([]string, error) {
	files := []string{}

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if path == "." {
			if !d.IsDir() {
				return fmt.Errorf("%w: asset root is not a directory", fs.ErrInvalid)
			}
			return nil
		}
		if isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk asset directory: %w", err)
	}

	return files, nil
}

// PathFor returns the asset directory of a project
func PathFor(root, slug string) string {
	return filepath.Join(root, slug)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
