// path: controllers/api.go
package controllers

import (
	"time"

	"go.uber.org/zap"

	"cidadeperfeita/database"
	"cidadeperfeita/models"
	"cidadeperfeita/storage"
)

// UploadPolicy is the boundary contract with the upload middleware: which
// image content types are let through and how large one photo may be.
// The map value is the extension given to the stored file.
type UploadPolicy struct {
	MaxBytes      int64
	AcceptedTypes map[string]string
}

// DefaultUploadPolicy mirrors the limits the browser client was built
// against: 5 MiB, png/jpeg/webp.
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{
		MaxBytes: 5 * 1024 * 1024,
		AcceptedTypes: map[string]string{
			"image/png":  ".png",
			"image/jpeg": ".jpg",
			"image/webp": ".webp",
		},
	}
}

// API bundles the injected collaborators the handlers work against.
type API struct {
	Store  *database.ReportStore
	Files  *storage.FileStore
	Upload UploadPolicy
	Log    *zap.SugaredLogger
}

func NewAPI(store *database.ReportStore, files *storage.FileStore, policy UploadPolicy, log *zap.SugaredLogger) *API {
	return &API{Store: store, Files: files, Upload: policy, Log: log.With("component", "api")}
}

// toItem builds the client-facing shape from a stored row.
func toItem(r *models.Report) models.ReportItem {
	item := models.ReportItem{
		ID:          r.ID,
		OriginalID:  r.OriginalID,
		Reporter:    r.Reporter,
		Description: r.Description,
		Type:        r.Type,
		PhotoPath:   r.PhotoPath,
		Location:    r.Location(),
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.ReporterID != nil {
		item.ReporterID = *r.ReporterID
	}
	return item
}
