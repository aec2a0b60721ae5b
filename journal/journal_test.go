package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []Event
	s := bufio.NewScanner(f)
	for s.Scan() {
		var ev Event
		require.NoError(t, json.Unmarshal(s.Bytes(), &ev))
		events = append(events, ev)
	}
	require.NoError(t, s.Err())
	return events
}

func TestJournal_AppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proguard", FileName)

	j, err := Open(path, "run-1")
	require.NoError(t, err)
	require.NoError(t, j.Record(Event{Type: BackupCreated, Path: "/b/app.jar", Target: "/b/app_proguard_base.jar"}))
	require.NoError(t, j.Close())

	j, err = Open(path, "run-2")
	require.NoError(t, err)
	require.NoError(t, j.Record(Event{Type: RunFinished}))
	require.NoError(t, j.Close())

	events := readEvents(t, path)
	require.Len(t, events, 2)
	assert.Equal(t, "run-1", events[0].RunID)
	assert.Equal(t, BackupCreated, events[0].Type)
	assert.Equal(t, "/b/app_proguard_base.jar", events[0].Target)
	assert.NotEmpty(t, events[0].Time)
	assert.Equal(t, "run-2", events[1].RunID)
}

func TestJournal_NilDiscards(t *testing.T) {
	var j *Journal
	assert.NoError(t, j.Record(Event{Type: RunStarted}))
	assert.NoError(t, j.Close())
}
