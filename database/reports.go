// path: database/reports.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cidadeperfeita/models"
)

var (
	// ErrDuplicateOriginalID means a row with the same original id is
	// already recorded. Callers treat this as "already exists", not as a
	// storage failure.
	ErrDuplicateOriginalID = errors.New("report with this original id already exists")

	// ErrNotFound means no row with the requested id exists.
	ErrNotFound = errors.New("report not found")

	// ErrForbidden means the row exists but belongs to another reporter.
	ErrForbidden = errors.New("report owned by another reporter")
)

// PurgeRow is the pre-delete snapshot PurgeAll hands back so the caller can
// reconcile blob files after the transaction committed.
type PurgeRow struct {
	ID        uint64
	PhotoPath string
}

// ReportStore is the authoritative persistence generation for reports.
type ReportStore struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewReportStore(db *gorm.DB, log *zap.SugaredLogger) *ReportStore {
	return &ReportStore{db: db, log: log.With("component", "reportstore")}
}

// EnsureSchema idempotently creates the reports table and its unique index on
// original_id. Safe to call concurrently at startup; a failure means the
// store cannot operate and the process must not start.
func (s *ReportStore) EnsureSchema(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Report{}); err != nil {
		return fmt.Errorf("migrate reports schema: %w", err)
	}
	return nil
}

// Insert persists one report. Missing fields are defaulted first: catch-all
// type, anonymous reporter, synthesized original id (unix ms, the same
// keyspace the legacy client used), server-side created-at, and a
// half-populated coordinate pair collapses to none. Two concurrent inserts
// of the same original id race safely on the unique index: one wins, the
// other gets ErrDuplicateOriginalID.
func (s *ReportStore) Insert(ctx context.Context, r *models.Report) error {
	r.Type = models.NormalizeType(r.Type)
	if r.Reporter == "" {
		r.Reporter = models.AnonymousReporter
	}
	if r.OriginalID == 0 {
		r.OriginalID = time.Now().UnixMilli()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.SetLocation(r.Lat, r.Lng)

	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOriginalID
		}
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// HasOriginal reports whether a row with the given original id exists.
func (s *ReportStore) HasOriginal(ctx context.Context, originalID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("original_id = ?", originalID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count original_id: %w", err)
	}
	return n > 0, nil
}

// ListByOwner returns reports newest first. An empty ownerID returns all
// rows; limit <= 0 means uncapped, anything else is clamped to 1..500.
func (s *ReportStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.Report, error) {
	q := s.db.WithContext(ctx).Model(&models.Report{}).Order("created_at DESC")
	if ownerID != "" {
		q = q.Where("reporter_id = ?", ownerID)
	}
	if limit > 0 {
		if limit > 500 {
			limit = 500
		}
		q = q.Limit(limit)
	}

	var out []models.Report
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}

// DeleteOwned deletes the row only when it exists and belongs to ownerID.
// The deleted row is returned so the caller can drop the associated blob;
// touching the file is the caller's job, not the store's.
func (s *ReportStore) DeleteOwned(ctx context.Context, id uint64, ownerID string) (models.Report, error) {
	var r models.Report
	err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Report{}, ErrNotFound
	}
	if err != nil {
		return models.Report{}, fmt.Errorf("load report %d: %w", id, err)
	}
	if r.ReporterID == nil || *r.ReporterID != ownerID {
		return models.Report{}, ErrForbidden
	}
	if err := s.db.WithContext(ctx).Delete(&models.Report{}, "id = ?", id).Error; err != nil {
		return models.Report{}, fmt.Errorf("delete report %d: %w", id, err)
	}
	return r, nil
}

// Count returns the number of stored reports.
func (s *ReportStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Report{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return n, nil
}

// PurgeAll deletes every row in a single transaction and returns the
// (id, photoPath) snapshot taken immediately before deletion. If the
// transaction cannot commit, nothing is deleted and no snapshot is returned.
// The snapshot is the caller's input for the post-commit blob pass; no file
// I/O happens inside the transaction.
func (s *ReportStore) PurgeAll(ctx context.Context) (int64, []PurgeRow, error) {
	var (
		rows    []PurgeRow
		deleted int64
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Report{}).
			Select("id", "photo_path").Find(&rows).Error; err != nil {
			return fmt.Errorf("snapshot reports: %w", err)
		}
		res := tx.Where("1 = 1").Delete(&models.Report{})
		if res.Error != nil {
			return fmt.Errorf("delete reports: %w", res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	s.log.Infow("purged reports", "rows", deleted)
	return deleted, rows, nil
}
