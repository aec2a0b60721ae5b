package outputs

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"jarshrink/core/internal/assemble"
	"jarshrink/core/internal/proguard"
	"jarshrink/filestore"
	"jarshrink/journal"
)

// Manager prepares output targets before the tool runs. Every mutation goes
// through FS, and nothing is mutated when DryRun is set.
type Manager struct {
	FS       billy.Filesystem
	BuildDir string
	DryRun   bool
	Journal  *journal.Journal
	Log      *zap.Logger
}

// Prepare runs each spec through target resolution, self-overwrite
// detection, stale-output cleanup or input backup, and emits one -outjars
// option per resolved target. Specs are processed strictly in order.
// A backup substitution is applied to inputs in place.
func (m *Manager) Prepare(specs []Spec, defaults Defaults, inputs *assemble.InputSet) (proguard.Options, []Target, error) {
	log := m.logger()
	var (
		opts    proguard.Options
		targets []Target
	)
	// backup path -> the target it holds
	backups := map[string]string{}
	for i, spec := range specs {
		target, ok := spec.Resolve(defaults)
		if !ok {
			log.Error("cannot determine the file for output, ignoring", zap.Int("index", i), zap.Any("spec", spec))
			continue
		}
		log.Debug("preparing output file", zap.String("file", target.File), zap.String("coordinate", target.String()))

		if inputs.Contains(target.File) {
			if err := m.backup(target.File, inputs, backups); err != nil {
				return nil, nil, err
			}
		} else if err := m.clearStale(target.File); err != nil {
			return nil, nil, err
		}

		opts = append(opts, proguard.NewOption(proguard.OutJars, target.File))
		targets = append(targets, target)
	}
	return opts, targets, nil
}

func (m *Manager) clearStale(path string) error {
	if m.DryRun {
		return nil
	}
	if _, err := m.FS.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &CleanupError{Path: path, Err: err}
	}
	m.logger().Info("deleting stale output", zap.String("path", path))
	m.record(journal.Event{Type: journal.OutputCleared, Path: path})
	if err := util.RemoveAll(m.FS, path); err != nil {
		return &CleanupError{Path: path, Err: err}
	}
	return nil
}

func (m *Manager) backup(target string, inputs *assemble.InputSet, backups map[string]string) error {
	log := m.logger()
	backup := filepath.Join(m.BuildDir, BackupName(target))

	// A backup path already in the input set is live input, never stale.
	if inputs.Contains(backup) {
		err := fmt.Errorf("%s is already an input", backup)
		if prev, ok := backups[backup]; ok {
			err = fmt.Errorf("%s already holds the backup of %s", backup, prev)
		}
		return &BackupRenameError{From: target, To: backup, Err: err}
	}
	log.Info("backing up existing file", zap.String("from", target), zap.String("to", backup))

	if m.DryRun {
		inputs.Substitute(target, backup)
		backups[backup] = target
		return nil
	}

	if _, err := m.FS.Lstat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("output overwrites an input that does not exist, nothing to back up", zap.String("path", target))
			return nil
		}
		return &BackupRenameError{From: target, To: backup, Err: err}
	}

	if _, err := m.FS.Lstat(backup); err == nil {
		log.Info("deleting existing backup", zap.String("path", backup))
		m.record(journal.Event{Type: journal.BackupRemoved, Path: backup})
		if err := util.RemoveAll(m.FS, backup); err != nil {
			return &CleanupError{Path: backup, Err: err}
		}
	}

	ev := journal.Event{Type: journal.BackupCreated, Path: target, Target: backup}
	if sum, size, err := m.hash(target); err == nil {
		ev.SHA256, ev.SizeBytes = sum, size
	}
	m.record(ev)
	if err := m.FS.Rename(target, backup); err != nil {
		return &BackupRenameError{From: target, To: backup, Err: err}
	}
	inputs.Substitute(target, backup)
	backups[backup] = target
	return nil
}

// EnsureDir creates dir when missing and checks that files can be created in
// it. It does nothing in dry-run mode.
func (m *Manager) EnsureDir(dir string) error {
	if m.DryRun {
		return nil
	}
	info, err := m.FS.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m.logger().Debug("creating output directory", zap.String("path", dir))
		if err := m.FS.MkdirAll(dir, 0o755); err != nil {
			return &OutputDirError{Path: dir, Err: err}
		}
	case err != nil:
		return &OutputDirError{Path: dir, Err: err}
	case !info.IsDir():
		return &OutputDirError{Path: dir, Err: errors.New("not a directory")}
	}

	probe, err := m.FS.TempFile(dir, ".jarshrink-probe-")
	if err != nil {
		return &OutputDirError{Path: dir, Err: err}
	}
	name := probe.Name()
	_ = probe.Close()
	if err := m.FS.Remove(name); err != nil {
		return &OutputDirError{Path: dir, Err: err}
	}
	return nil
}

// hash skips directories; only archives get a recorded checksum.
func (m *Manager) hash(path string) (string, int64, error) {
	info, err := m.FS.Stat(path)
	if err != nil {
		return "", 0, err
	}
	if info.IsDir() {
		return "", 0, errors.New("directory")
	}
	f, err := m.FS.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	return filestore.SHA256Reader(f)
}

func (m *Manager) record(ev journal.Event) {
	if err := m.Journal.Record(ev); err != nil {
		m.logger().Warn("journal write failed", zap.String("type", ev.Type), zap.Error(err))
	}
}

func (m *Manager) logger() *zap.Logger {
	if m.Log == nil {
		return zap.NewNop()
	}
	return m.Log
}
