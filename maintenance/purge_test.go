// path: maintenance/purge_test.go
package maintenance

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cidadeperfeita/database"
	"cidadeperfeita/models"
	"cidadeperfeita/storage"
)

func seedPurge(t *testing.T, store *database.ReportStore, files *storage.FileStore, n int) []string {
	t.Helper()
	ctx := context.Background()
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		p := savePhoto(t, files)
		paths = append(paths, p)
		r := models.Report{OriginalID: int64(100 + i), PhotoPath: p}
		require.NoError(t, store.Insert(ctx, &r))
	}
	return paths
}

func TestPurgeDryRunChangesNothing(t *testing.T) {
	store, files, _ := newFixtures(t)
	paths := seedPurge(t, store, files, 3)
	ctx := context.Background()

	stats, err := Purge(ctx, store, files, PurgeOptions{DryRun: true}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.True(t, stats.DryRun)
	assert.Equal(t, int64(3), stats.TotalBefore)
	assert.Zero(t, stats.RowsDeleted)
	assert.NotEmpty(t, stats.Sample)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	for _, p := range paths {
		assert.True(t, files.Exists(p))
	}
}

func TestPurgeRefusesWithoutConfirm(t *testing.T) {
	store, files, _ := newFixtures(t)
	seedPurge(t, store, files, 1)
	ctx := context.Background()

	_, err := Purge(ctx, store, files, PurgeOptions{}, zap.NewNop().Sugar())
	require.ErrorIs(t, err, ErrNotConfirmed)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPurgeKeepsFilesByDefault(t *testing.T) {
	store, files, _ := newFixtures(t)
	paths := seedPurge(t, store, files, 2)
	ctx := context.Background()

	stats, err := Purge(ctx, store, files, PurgeOptions{Confirm: true}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.RowsDeleted)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	for _, p := range paths {
		assert.True(t, files.Exists(p))
	}
}

func TestPurgeArchiveMovesEveryFile(t *testing.T) {
	store, files, _ := newFixtures(t)
	paths := seedPurge(t, store, files, 3)
	archiveDir := filepath.Join(t.TempDir(), "uploads-archive")
	ctx := context.Background()

	stats, err := Purge(ctx, store, files, PurgeOptions{
		Confirm:    true,
		Mode:       ArchiveFiles,
		ArchiveDir: archiveDir,
	}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.RowsDeleted)
	assert.Equal(t, 3, stats.Archived)
	assert.Zero(t, stats.FileFailures)

	// No file lost, none left behind.
	for _, p := range paths {
		assert.False(t, files.Exists(p))
	}
	entries, err := filepath.Glob(filepath.Join(archiveDir, "*"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestPurgeDeleteFilesRemovesEveryFile(t *testing.T) {
	store, files, _ := newFixtures(t)
	paths := seedPurge(t, store, files, 2)
	ctx := context.Background()

	stats, err := Purge(ctx, store, files, PurgeOptions{
		Confirm: true,
		Mode:    DeleteFiles,
	}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FilesDeleted)

	for _, p := range paths {
		assert.False(t, files.Exists(p))
	}
}

func TestPurgeToleratesAlreadyMissingFiles(t *testing.T) {
	store, files, _ := newFixtures(t)
	paths := seedPurge(t, store, files, 2)
	require.NoError(t, files.Remove(paths[0]))
	ctx := context.Background()

	stats, err := Purge(ctx, store, files, PurgeOptions{
		Confirm: true,
		Mode:    DeleteFiles,
	}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.RowsDeleted)
	assert.Equal(t, 1, stats.FilesDeleted)
	assert.Zero(t, stats.FileFailures)
}

func TestPurgeEmptyStoreExitsEarly(t *testing.T) {
	store, files, _ := newFixtures(t)

	// No confirm needed when there is nothing to delete.
	stats, err := Purge(context.Background(), store, files, PurgeOptions{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalBefore)
	assert.Zero(t, stats.RowsDeleted)
}
