// path: maintenance/purge.go
package maintenance

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"cidadeperfeita/database"
	"cidadeperfeita/storage"
)

// FileMode says what happens to the photo files after the rows are gone.
type FileMode int

const (
	// KeepFiles leaves every photo where it is.
	KeepFiles FileMode = iota
	// ArchiveFiles moves every photo into the archive directory.
	ArchiveFiles
	// DeleteFiles removes every photo.
	DeleteFiles
)

// PurgeOptions gates the destructive pass. Mutation requires Confirm;
// DryRun reports what would happen and touches nothing.
type PurgeOptions struct {
	DryRun     bool
	Confirm    bool
	Mode       FileMode
	ArchiveDir string
}

// PurgeStats summarizes one purge invocation.
type PurgeStats struct {
	TotalBefore  int64
	RowsDeleted  int64
	Sample       []string
	Archived     int
	FilesDeleted int
	FileFailures int
	DryRun       bool
}

// ErrNotConfirmed is returned when a mutating purge was requested without
// the explicit confirmation flag.
var ErrNotConfirmed = errors.New("purge not confirmed")

// Purge deletes every report row in one transaction, then walks the
// snapshotted photo paths and keeps, archives or deletes each file per the
// options. The relational delete is the source of truth: a file failure
// after commit is logged and counted, never rolled back into the database.
func Purge(ctx context.Context, store *database.ReportStore, files *storage.FileStore, opts PurgeOptions, out *zap.SugaredLogger) (PurgeStats, error) {
	stats := PurgeStats{DryRun: opts.DryRun}

	total, err := store.Count(ctx)
	if err != nil {
		return stats, err
	}
	stats.TotalBefore = total
	if total == 0 {
		out.Infow("no reports stored, nothing to purge")
		return stats, nil
	}

	if opts.DryRun {
		// Show a handful of affected paths without mutating anything.
		rows, err := store.ListByOwner(ctx, "", 5)
		if err != nil {
			return stats, err
		}
		for i := range rows {
			stats.Sample = append(stats.Sample, rows[i].PhotoPath)
		}
		return stats, nil
	}
	if !opts.Confirm {
		return stats, ErrNotConfirmed
	}

	deleted, snapshot, err := store.PurgeAll(ctx)
	if err != nil {
		// Transaction rolled back: zero rows deleted, no file touched.
		return stats, err
	}
	stats.RowsDeleted = deleted

	// Post-commit file pass. Each file fails or succeeds on its own.
	for _, row := range snapshot {
		if row.PhotoPath == "" {
			continue
		}
		switch opts.Mode {
		case ArchiveFiles:
			if !files.Exists(row.PhotoPath) {
				continue
			}
			if err := files.Archive(row.PhotoPath, opts.ArchiveDir); err != nil {
				out.Warnw("archive failed", "file", row.PhotoPath, "err", err)
				stats.FileFailures++
				continue
			}
			stats.Archived++
		case DeleteFiles:
			if !files.Exists(row.PhotoPath) {
				continue
			}
			if err := files.Remove(row.PhotoPath); err != nil {
				out.Warnw("delete failed", "file", row.PhotoPath, "err", err)
				stats.FileFailures++
				continue
			}
			stats.FilesDeleted++
		case KeepFiles:
			// Rows gone, files stay.
		}
	}

	return stats, nil
}
