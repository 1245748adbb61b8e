// Package ledger provides an ephemeral, queryable history of transcode
// jobs for the admin API (SPEC_FULL.md's domain stack), grounded on the
// teacher's gorm-based database layer
// (internal/database/models.go for the tag style, and
// internal/modules/transcodingmodule/core/session/store.go for the
// repository-over-gorm shape). It deliberately always opens an in-memory
// sqlite database ("file::memory:?cache=shared") so the ledger never
// persists across restarts, matching spec.md §6 ("Persisted state: None
// beyond the contents of VIDEO_DIR").
package ledger

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// JobRecord is the gorm model for one TranscodeJob lifecycle (spec.md §3).
type JobRecord struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title      string     `gorm:"not null;index" json:"title"`
	SourcePath string     `gorm:"not null" json:"source_path"`
	TargetPath string     `gorm:"not null" json:"target_path"`
	Resolution string     `gorm:"not null" json:"resolution"`
	Container  string     `gorm:"not null" json:"container"`
	Status     string     `gorm:"not null;index" json:"status"`
	Error      string     `gorm:"type:text" json:"error,omitempty"`
	QueuedAt   time.Time  `gorm:"not null" json:"queued_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

// TableName pins the gorm table name to "jobs" rather than the pluralized
// struct name.
func (JobRecord) TableName() string { return "jobs" }

// Ledger records transcode job lifecycle transitions and answers admin API
// history queries.
type Ledger struct {
	db *gorm.DB
}

// Open creates an in-memory ledger and migrates the schema.
func Open() (*Ledger, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&JobRecord{}); err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// OpenWithDB wraps an already-open *gorm.DB, used by tests that inject a
// sqlmock-backed DB instead of a real sqlite connection.
func OpenWithDB(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Queued inserts a new job record in the "queued" state.
func (l *Ledger) Queued(rec JobRecord) error {
	rec.Status = "queued"
	if rec.QueuedAt.IsZero() {
		rec.QueuedAt = time.Now()
	}
	return l.db.Create(&rec).Error
}

// Transition updates a job record's status, stamping StartedAt/EndedAt as
// appropriate for the new status.
func (l *Ledger) Transition(id, status, errMsg string) error {
	updates := map[string]interface{}{"status": status}
	if errMsg != "" {
		updates["error"] = errMsg
	}
	now := time.Now()
	switch status {
	case "running":
		updates["started_at"] = now
	case "done", "failed", "cancelled":
		updates["ended_at"] = now
	}
	return l.db.Model(&JobRecord{}).Where("id = ?", id).Updates(updates).Error
}

// Recent returns the most recent job records, newest first, capped at limit.
func (l *Ledger) Recent(limit int) ([]JobRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []JobRecord
	err := l.db.Order("queued_at desc").Limit(limit).Find(&out).Error
	return out, err
}

// Close releases the underlying database connection.
func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
