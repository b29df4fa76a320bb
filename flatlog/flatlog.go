// path: flatlog/flatlog.go
package flatlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cidadeperfeita/models"
)

// Log is the legacy persistence generation: one JSON array file holding every
// report, newest first, rewritten in full on each append. It pre-dates the
// relational store and is only read back by the sync job.
type Log struct {
	path string
}

func New(path string) *Log {
	return &Log{path: path}
}

// Load reads every entry. A missing file is zero entries, not an error.
func (l *Log) Load() ([]models.FlatReport, error) {
	raw, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.path, err)
	}

	var entries []models.FlatReport
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.path, err)
	}
	return entries, nil
}

// Append prepends the entry and rewrites the whole file. The rewrite goes
// through a temp file and rename so a crash never leaves a torn array behind.
func (l *Log) Append(entry models.FlatReport) error {
	entries, err := l.Load()
	if err != nil {
		return err
	}
	entries = append([]models.FlatReport{entry}, entries...)

	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", l.path, err)
	}

	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, ".reports-*.json")
	if err != nil {
		return fmt.Errorf("temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("replace %s: %w", l.path, err)
	}
	return nil
}
