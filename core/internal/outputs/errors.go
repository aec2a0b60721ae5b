package outputs

import "fmt"

// CleanupError reports a stale output or old backup that could not be
// removed.
type CleanupError struct {
	Path string
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cannot delete %s: %v", e.Path, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }

type BackupRenameError struct {
	From string
	To   string
	Err  error
}

func (e *BackupRenameError) Error() string {
	return fmt.Sprintf("cannot rename %s to %s: %v", e.From, e.To, e.Err)
}

func (e *BackupRenameError) Unwrap() error { return e.Err }

type OutputDirError struct {
	Path string
	Err  error
}

func (e *OutputDirError) Error() string {
	return fmt.Sprintf("output directory %s is not a writable directory: %v", e.Path, e.Err)
}

func (e *OutputDirError) Unwrap() error { return e.Err }
