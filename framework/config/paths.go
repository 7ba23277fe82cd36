package config

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// PathResolver maps a configuration file name to a path on disk.
// A file present in LocalDir takes precedence over the one in BaseDir.
type PathResolver struct {
	BaseDir  string
	LocalDir string
}

// Dirs returns the configured directories, local first.
func (p PathResolver) Dirs() []string {
	var dirs []string
	if p.LocalDir != "" {
		dirs = append(dirs, p.LocalDir)
	}
	if p.BaseDir != "" {
		dirs = append(dirs, p.BaseDir)
	}
	return dirs
}

// Resolve returns the path of filename. The error wraps fs.ErrNotExist when
// no directory holds the file.
func (p PathResolver) Resolve(filename string) (string, error) {
	for _, dir := range p.Dirs() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.Wrapf(fs.ErrNotExist, "config: %s not found in %v", filename, p.Dirs())
}
