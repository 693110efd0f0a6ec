package level

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level/formats"
)

// Loader reads level files from disk.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader rooted at a directory.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadFile parses and builds every level in a file. Relative paths are
// resolved against Root. No level is returned unless all of them build.
func (l *Loader) LoadFile(path string) ([]*Level, error) {
	if !filepath.IsAbs(path) && l.Root != "" {
		path = filepath.Join(l.Root, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	specs, err := parseByExtension(data, ext)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing file %s", path)
	}

	return BuildAll(specs)
}

// BuildAll builds a level per specification, in order.
func BuildAll(specs []formats.Level) ([]*Level, error) {
	levels := make([]*Level, 0, len(specs))
	for i, spec := range specs {
		lvl, err := New(i, spec)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return levels, nil
}

// List returns the level files found directly under Root, sorted by name.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", l.Root, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isSupportedExtension(strings.ToLower(filepath.Ext(e.Name()))) {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)
	return files, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	return slices.Contains(formats.FormatExtensions(), ext)
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) ([]formats.Level, error) {
	switch ext {
	case ".json", ".levels":
		return formats.ParseJSON(data)
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported extension: %s", ext)
	}
}
