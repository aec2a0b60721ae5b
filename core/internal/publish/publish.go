package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"

	"jarshrink/artifact"
	"jarshrink/core/internal/version"
	"jarshrink/filestore"
)

const ManifestName = "attachments.json"

// Attachment is a file attached to the build result.
type Attachment struct {
	Type       string `json:"type"`
	Classifier string `json:"classifier,omitempty"`
	File       string `json:"file"`
	SizeBytes  int64  `json:"size_bytes"`
	SHA256     string `json:"sha256,omitempty"`
	AttachedAt string `json:"attached_at"`
}

type Publisher interface {
	Attach(a Attachment) error
}

type Manifest struct {
	RunID       string            `json:"run_id"`
	Project     string            `json:"project"`
	CreatedAt   string            `json:"created_at"`
	Attachments []Attachment      `json:"attachments"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ManifestPublisher records attachments and writes them as one JSON
// manifest on Flush.
type ManifestPublisher struct {
	path     string
	manifest Manifest
	log      *zap.Logger
}

func NewManifestPublisher(dir, runID string, project artifact.Coordinate, log *zap.Logger) *ManifestPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &ManifestPublisher{
		path: filepath.Join(dir, ManifestName),
		manifest: Manifest{
			RunID:       runID,
			Project:     project.String(),
			Attachments: []Attachment{},
			Metadata: map[string]string{
				"goos":    runtime.GOOS,
				"goarch":  runtime.GOARCH,
				"version": version.Version,
			},
		},
		log: log,
	}
}

func (p *ManifestPublisher) Path() string { return p.path }

// Attach checksums the file and records it. The file must exist; a
// directory is recorded without a checksum.
func (p *ManifestPublisher) Attach(a Attachment) error {
	info, err := os.Stat(a.File)
	if err != nil {
		return fmt.Errorf("cannot attach %s: %w", a.File, err)
	}
	if !info.IsDir() {
		sha, size, err := filestore.SHA256File(a.File)
		if err != nil {
			return fmt.Errorf("cannot attach %s: %w", a.File, err)
		}
		a.SHA256, a.SizeBytes = sha, size
	}
	if a.AttachedAt == "" {
		a.AttachedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	p.log.Info("attaching artifact",
		zap.String("type", a.Type),
		zap.String("classifier", a.Classifier),
		zap.String("file", a.File))
	p.manifest.Attachments = append(p.manifest.Attachments, a)
	return nil
}

func (p *ManifestPublisher) Attachments() []Attachment {
	return append([]Attachment(nil), p.manifest.Attachments...)
}

func (p *ManifestPublisher) Flush() error {
	p.manifest.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	b, err := json.MarshalIndent(p.manifest, "", "  ")
	if err != nil {
		return err
	}
	return filestore.WriteFileAtomic(p.path, append(b, '\n'), 0o644)
}
