// Package fs reads map files from a directory tree.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMapNotFound is returned when no map file exists at the requested path.
var ErrMapNotFound = errors.New("map file not found")

// MapReader implements ports.MapReader. Paths are resolved inside Dir and may not escape it.
// A path may be written with or without the "~" user-data prefix scenarios use.
type MapReader struct {
	Dir string
}

// NewMapReader creates a reader rooted at dir.
func NewMapReader(dir string) *MapReader {
	return &MapReader{Dir: dir}
}

// ReadMap returns the contents of the map file at path.
func (r *MapReader) ReadMap(path string) (string, error) {
	name := filepath.FromSlash(strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	if name == "" {
		return "", fmt.Errorf("%w: empty path", ErrMapNotFound)
	}

	root, err := os.OpenRoot(r.Dir)
	if err != nil {
		return "", fmt.Errorf("open map directory: %w", err)
	}
	defer root.Close()

	data, err := root.ReadFile(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrMapNotFound, path)
		}
		return "", fmt.Errorf("read map %s: %w", path, err)
	}
	return string(data), nil
}
