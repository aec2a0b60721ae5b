package proguard

import (
	"path/filepath"
)

// ResolvePath returns name unchanged when it is absolute, otherwise name
// joined onto base. The result is cleaned.
func ResolvePath(name, base string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(base, name)
}

// Quote wraps the canonical form of path in single quotes. Paths with spaces
// or parentheses must be quoted for the tool's configuration parser. When the
// canonical form cannot be determined (for instance the file does not exist
// yet) the absolute form is used instead.
func Quote(path string) string {
	return "'" + Canonical(path) + "'"
}

// Canonical resolves symlinks in path, falling back to the absolute path.
func Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}
