// path: flatlog/flatlog_test.go
package flatlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cidadeperfeita/models"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "reports.json"))
	entries, err := l.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAppendKeepsNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	l := New(path)

	require.NoError(t, l.Append(models.FlatReport{ID: 1, Type: "rua", PhotoPath: "/uploads/1.jpg"}))
	require.NoError(t, l.Append(models.FlatReport{ID: 2, Type: "arvore", PhotoPath: "/uploads/2.jpg"}))

	entries, err := l.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].ID)
	assert.Equal(t, int64(1), entries[1].ID)

	// The file on disk is one plain JSON array, like the legacy writer left.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var arr []map[string]any
	require.NoError(t, json.Unmarshal(raw, &arr))
	assert.Len(t, arr, 2)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := New(path).Load()
	assert.Error(t, err)
}

func TestCreatedTimeParsing(t *testing.T) {
	e := models.FlatReport{CreatedAt: "2024-05-01T12:00:00.000Z"}
	ts, ok := e.CreatedTime()
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	_, ok = (&models.FlatReport{}).CreatedTime()
	assert.False(t, ok)

	_, ok = (&models.FlatReport{CreatedAt: "yesterday"}).CreatedTime()
	assert.False(t, ok)
}
