// Package history persists per-job conversion records to a SQLite database
// when --history is set. Records are an audit trail only: nothing in the
// run reads them back to make decisions.
package history

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is one finished (or failed) conversion job. Rows from the same
// batch share a RunID.
type Record struct {
	ID           uint   `gorm:"primaryKey"`
	RunID        string `gorm:"index"`
	InputPath    string
	OutputPath   string
	Status       string // "success" or "failed"
	ExitCode     int
	ErrorMessage string
	DurationMs   int64
	CreatedAt    time.Time
}

// Store wraps the database handle.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path and migrates
// the schema. gorm's own logging is silenced; surfacing database problems
// is the caller's job.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Append inserts one record.
func (s *Store) Append(rec *Record) error {
	return s.db.Create(rec).Error
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	var recs []Record
	err := s.db.Order("id desc").Limit(limit).Find(&recs).Error
	return recs, err
}

// ForRun returns all records of one run in insertion order.
func (s *Store) ForRun(runID string) ([]Record, error) {
	var recs []Record
	err := s.db.Where("run_id = ?", runID).Order("id asc").Find(&recs).Error
	return recs, err
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
