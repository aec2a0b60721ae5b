package publish

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jarshrink/artifact"
)

func TestManifestPublisher(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "app-1.0-small.jar")
	require.NoError(t, os.WriteFile(jar, []byte("abc"), 0o644))

	p := NewManifestPublisher(dir, "run-1", artifact.Coordinate{GroupID: "com.x", ArtifactID: "app", Version: "1.0"}, nil)
	require.NoError(t, p.Attach(Attachment{Type: "jar", Classifier: "small", File: jar}))
	require.NoError(t, p.Flush())

	b, err := os.ReadFile(p.Path())
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Equal(t, "run-1", m.RunID)
	assert.Equal(t, "com.x:app:jar:1.0", m.Project)
	assert.NotEmpty(t, m.Metadata["goos"])
	require.Len(t, m.Attachments, 1)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", m.Attachments[0].SHA256)
	assert.Equal(t, int64(3), m.Attachments[0].SizeBytes)
	assert.Equal(t, "small", m.Attachments[0].Classifier)
}

func TestManifestPublisher_MissingFile(t *testing.T) {
	p := NewManifestPublisher(t.TempDir(), "run", artifact.Coordinate{}, nil)
	err := p.Attach(Attachment{Type: "jar", File: "/nonexistent/app.jar"})
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, p.Attachments())
}
