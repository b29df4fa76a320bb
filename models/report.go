// path: models/report.go
package models

import (
	"time"
)

// AnonymousReporter is stored when the submitter left the name field empty.
const AnonymousReporter = "Anônimo"

// DefaultType is the catch-all category for empty or unrecognized types.
const DefaultType = "outros"

var knownTypes = map[string]bool{
	"rua":        true,
	"arvore":     true,
	"iluminacao": true,
	"outros":     true,
}

// NormalizeType maps empty/unknown categories to the catch-all one.
func NormalizeType(t string) string {
	if knownTypes[t] {
		return t
	}
	return DefaultType
}

// LatLng is an atomic coordinate pair: either both values are present or the
// whole pair is absent.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Report is the authoritative relational row for one submitted complaint.
// OriginalID is the cross-generation dedup key: exactly one row may exist per
// value, enforced by the unique index, never by application locking.
type Report struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	OriginalID  int64     `gorm:"column:original_id;uniqueIndex;not null" json:"originalId"`
	Reporter    string    `gorm:"size:120" json:"reporter"`
	ReporterID  *string   `gorm:"column:reporter_id;size:64;index" json:"reporterId,omitempty"`
	Description string    `json:"description"`
	Type        string    `gorm:"size:32" json:"type"`
	PhotoPath   string    `gorm:"size:255;not null" json:"photoPath"`
	Lat         *float64  `gorm:"column:location_lat" json:"-"`
	Lng         *float64  `gorm:"column:location_lng" json:"-"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}

func (Report) TableName() string { return "reports" }

// Location returns the coordinate pair, or nil when the report has none.
func (r *Report) Location() *LatLng {
	if r.Lat == nil || r.Lng == nil {
		return nil
	}
	return &LatLng{Lat: *r.Lat, Lng: *r.Lng}
}

// SetLocation normalizes a half-populated pair to "absent".
func (r *Report) SetLocation(lat, lng *float64) {
	if lat == nil || lng == nil {
		r.Lat, r.Lng = nil, nil
		return
	}
	r.Lat, r.Lng = lat, lng
}

// FlatLocation is the coordinate pair as legacy entries carried it: loosely
// typed, so either field may be missing. A half pair must collapse to
// "absent" downstream, never pass as a full one.
type FlatLocation struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// FlatReport is one entry of the legacy flat log file (a single JSON array,
// newest first). Its client-assigned id becomes OriginalID downstream.
type FlatReport struct {
	ID          int64         `json:"id"`
	Reporter    string        `json:"reporter,omitempty"`
	ReporterID  string        `json:"reporterId,omitempty"`
	Description string        `json:"description"`
	Type        string        `json:"type"`
	PhotoPath   string        `json:"photoPath"`
	CreatedAt   string        `json:"createdAt,omitempty"`
	Location    *FlatLocation `json:"location"`
}

// CreatedTime parses the entry timestamp; historical entries may carry none,
// in which case ok is false and the caller picks the insert time.
func (f *FlatReport) CreatedTime() (time.Time, bool) {
	if f.CreatedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, f.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
