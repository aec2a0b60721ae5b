package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const FileName = "jarshrink-journal.jsonl"

const (
	RunStarted    = "run_started"
	OutputCleared = "output_cleared"
	BackupRemoved = "backup_removed"
	BackupCreated = "backup_created"
	ToolStarted   = "tool_started"
	ToolFinished  = "tool_finished"
	InputDeleted  = "input_deleted"
	Attached      = "artifact_attached"
	RunFinished   = "run_finished"
)

type Event struct {
	Time      string            `json:"time"`
	Type      string            `json:"type"`
	RunID     string            `json:"run_id,omitempty"`
	Path      string            `json:"path,omitempty"`
	Target    string            `json:"target,omitempty"`
	SHA256    string            `json:"sha256,omitempty"`
	SizeBytes int64             `json:"size_bytes,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Journal appends one JSON event per line. Each event is written straight
// to the file, so a record of a destructive step exists on disk before the
// step runs. A nil *Journal discards events.
type Journal struct {
	mu    sync.Mutex
	f     *os.File
	enc   *json.Encoder
	runID string
}

func Open(path, runID string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Journal{f: f, enc: json.NewEncoder(f), runID: runID}, nil
}

func (j *Journal) Record(ev Event) error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if ev.Time == "" {
		ev.Time = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if ev.RunID == "" {
		ev.RunID = j.runID
	}
	if err := j.enc.Encode(ev); err != nil {
		return err
	}
	return j.f.Sync()
}

func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.f.Close()
}
