// path: maintenance/sync.go
package maintenance

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cidadeperfeita/database"
	"cidadeperfeita/flatlog"
	"cidadeperfeita/models"
	"cidadeperfeita/storage"
)

// SyncStats is the per-pass accounting of the flat-log migration.
type SyncStats struct {
	Scanned             int
	Migrated            int
	SkippedExisting     int
	SkippedNoID         int
	SkippedMissingPhoto int
	Failed              int
}

// Syncer lifts flat-log entries into the relational store exactly once per
// logical report. One invocation is one pass over the log; re-running is safe
// because already-migrated entries are skipped by their original id.
type Syncer struct {
	Log   *flatlog.Log
	Store *database.ReportStore
	Files *storage.FileStore
	Out   *zap.SugaredLogger
}

// Run performs a single pass. A per-entry problem is logged and counted, and
// the pass continues; only failing to read the log itself aborts.
func (s *Syncer) Run(ctx context.Context) (SyncStats, error) {
	var stats SyncStats

	entries, err := s.Log.Load()
	if err != nil {
		return stats, fmt.Errorf("load flat log: %w", err)
	}
	if len(entries) == 0 {
		s.Out.Infow("flat log empty, nothing to sync")
		return stats, nil
	}

	for i := range entries {
		e := &entries[i]
		stats.Scanned++

		// Without the client-assigned id there is no dedup key, so the
		// entry can never be migrated safely.
		if e.ID == 0 {
			s.Out.Warnw("entry without id, skipping", "index", i)
			stats.SkippedNoID++
			continue
		}

		exists, err := s.Store.HasOriginal(ctx, e.ID)
		if err != nil {
			s.Out.Errorw("dedup check failed", "originalId", e.ID, "err", err)
			stats.Failed++
			continue
		}
		if exists {
			stats.SkippedExisting++
			continue
		}

		// Never fabricate a row pointing at a photo that is gone.
		if e.PhotoPath == "" || !s.Files.Exists(e.PhotoPath) {
			s.Out.Warnw("photo missing, skipping", "originalId", e.ID, "photo", e.PhotoPath)
			stats.SkippedMissingPhoto++
			continue
		}

		r := models.Report{
			OriginalID:  e.ID,
			Reporter:    e.Reporter,
			Description: e.Description,
			Type:        e.Type,
			PhotoPath:   e.PhotoPath,
		}
		if e.ReporterID != "" {
			rid := e.ReporterID
			r.ReporterID = &rid
		}
		// Legacy entries may carry a half-filled pair; SetLocation
		// collapses it to absent.
		if e.Location != nil {
			r.SetLocation(e.Location.Lat, e.Location.Lng)
		}
		if t, ok := e.CreatedTime(); ok {
			r.CreatedAt = t
		}

		if err := s.Store.Insert(ctx, &r); err != nil {
			// A duplicate here means a concurrent writer won the
			// race since the check above; that is still "migrated".
			if errors.Is(err, database.ErrDuplicateOriginalID) {
				stats.SkippedExisting++
				continue
			}
			s.Out.Errorw("insert failed", "originalId", e.ID, "err", err)
			stats.Failed++
			continue
		}
		s.Out.Infow("migrated", "originalId", e.ID, "id", r.ID)
		stats.Migrated++
	}

	return stats, nil
}
