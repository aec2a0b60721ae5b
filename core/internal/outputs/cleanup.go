package outputs

import (
	"path/filepath"

	"go.uber.org/zap"

	"jarshrink/core/internal/assemble"
	"jarshrink/journal"
)

// DeleteInputs removes the regular-file inputs of a successful run. Backups,
// directories and anything that is also an output target are kept. It does
// nothing in dry-run mode.
func (m *Manager) DeleteInputs(inputs *assemble.InputSet, targets []Target) ([]string, error) {
	if m.DryRun {
		return nil, nil
	}
	keep := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		keep[filepath.Clean(t.File)] = struct{}{}
	}

	var deleted []string
	for _, in := range inputs.Inputs() {
		if in.Backup || in.File.Dir {
			continue
		}
		if _, ok := keep[in.File.Path]; ok {
			continue
		}
		info, err := m.FS.Lstat(in.File.Path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		m.logger().Info("deleting input file", zap.String("path", in.File.Path))
		m.record(journal.Event{Type: journal.InputDeleted, Path: in.File.Path, SizeBytes: info.Size()})
		if err := m.FS.Remove(in.File.Path); err != nil {
			return deleted, &CleanupError{Path: in.File.Path, Err: err}
		}
		deleted = append(deleted, in.File.Path)
	}
	return deleted, nil
}
