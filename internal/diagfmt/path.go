package diagfmt

import (
	"path/filepath"
	"strings"

	"tails/internal/source"
)

func formatPath(f *source.File, mode PathMode, base string) string {
	if f == nil {
		return "<unknown>"
	}
	path := filepath.FromSlash(f.Path)
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	case PathModeBasename:
		path = filepath.Base(path)
	case PathModeRelative, PathModeAuto:
		if base == "" {
			break
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			break
		}
		if mode == PathModeAuto && strings.HasPrefix(rel, "..") {
			break
		}
		path = rel
	}
	return filepath.ToSlash(path)
}
